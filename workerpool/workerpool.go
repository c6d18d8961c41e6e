/* Package workerpool runs a limited number of error returning jobs concurrently.
 *
 * Copyright 2026 Jaro Väisänen
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 *     Unless required by applicable law or agreed to in writing, software
 *     distributed under the License is distributed on an "AS IS" BASIS,
 *     WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *     See the License for the specific language governing permissions and
 *     limitations under the License.
 */
package workerpool

import (
	"fmt"
	"sync"
)

// Errors collects the errors of all failed jobs, in completion order.
type Errors []error

// Error returns a string representation of the collected errors.
func (e Errors) Error() string {
	return fmt.Sprint([]error(e))
}

// Pool runs jobs concurrently, at most limit at a time. Jobs submitted after
// Wait has been called are not run.
type Pool struct {
	tickets chan struct{}
	wg      sync.WaitGroup

	mu   sync.Mutex
	errs Errors
}

// New returns a pool running at most limit jobs concurrently. A limit of zero
// or less means no limit.
func New(limit int) *Pool {
	p := &Pool{}
	if limit > 0 {
		p.tickets = make(chan struct{}, limit)
	}
	return p
}

// Go submits a job. It blocks while the pool is at its concurrency limit.
func (p *Pool) Go(job func() error) {
	if p.tickets != nil {
		p.tickets <- struct{}{}
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		err := job()
		if p.tickets != nil {
			<-p.tickets
		}
		if err != nil {
			p.mu.Lock()
			p.errs = append(p.errs, err)
			p.mu.Unlock()
		}
	}()
}

// Wait blocks until all submitted jobs have finished and returns the
// collected errors, or nil if every job succeeded.
func (p *Pool) Wait() error {
	p.wg.Wait()
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs
}
