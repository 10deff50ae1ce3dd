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

package catalogue

import "github.com/civitas-sh/civitas/xerr"

func errMissingField(field string) error {
	return xerr.ErrInputMalformed("rule", "missing required field %q", field)
}

func errInvalidComparator(c Comparator) error {
	return xerr.ErrInputMalformed("rule", "invalid comparator %q", string(c))
}

func errInvalidSeverity(s Severity) error {
	return xerr.ErrInputMalformed("rule", "invalid severity %q", string(s))
}
