// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scripting

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
	"github.com/jackc/puddle/v2"
)

// vmInstance wraps one goja runtime. goja VMs are not safe for concurrent
// use, so every evaluation acquires one from the pool instead of sharing a
// single runtime across extraction/evaluation workers.
type vmInstance struct {
	rt *goja.Runtime
}

// Pool hands out pooled goja VM instances for running short extraction
// expressions concurrently, one VM per in-flight evaluation.
type Pool struct {
	instances *puddle.Pool[*vmInstance]
}

// NewPool creates a pool capped at maxSize concurrent VM instances.
func NewPool(maxSize int32) (*Pool, error) {
	constructor := func(ctx context.Context) (*vmInstance, error) {
		return &vmInstance{rt: goja.New()}, nil
	}
	destructor := func(v *vmInstance) {}

	p, err := puddle.NewPool(&puddle.Config[*vmInstance]{
		Constructor: constructor,
		Destructor:  destructor,
		MaxSize:     maxSize,
	})
	if err != nil {
		return nil, err
	}
	return &Pool{instances: p}, nil
}

// Eval compiles (transpiling if needed) and runs a short expression against
// a property bag, returning its scalar result. A throw, timeout, or
// non-scalar return value is reported as an error; callers treat any error
// here as a null resolution, never a hard failure (per the scripting design
// note).
func (p *Pool) Eval(ctx context.Context, src *Source, bag map[string]any) (any, error) {
	code := src.Body
	if isTS(src) {
		res, err := TranspileTS(src, src.Body)
		if err != nil {
			return nil, fmt.Errorf("transpile: %w", err)
		}
		code = res.Code
	}

	binding, err := p.instances.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer binding.Release()

	vm := binding.Value().rt
	for k, v := range bag {
		if err := vm.Set(k, v); err != nil {
			return nil, err
		}
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
			vm.ClearInterrupt()
		}
	}()
	defer close(done)

	val, err := vm.RunString(code)
	if err != nil {
		return nil, err
	}
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, nil
	}
	switch out := val.Export().(type) {
	case int64, float64, string, bool:
		return out, nil
	default:
		return nil, fmt.Errorf("non-scalar script result of type %T", out)
	}
}

// Close drains the pool, releasing all VM instances.
func (p *Pool) Close() {
	p.instances.Close()
}
