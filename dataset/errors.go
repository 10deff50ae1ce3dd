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

package dataset

import "github.com/civitas-sh/civitas/xerr"

// ErrMissingRequiredField is returned by Builder.Build when a required
// numeric element field is absent. It is a hard input-malformed error,
// never silently defaulted to a placeholder value.
func ErrMissingRequiredField(elementID, field string) error {
	return xerr.ErrInputMalformed("element:"+elementID, "missing required numeric field %q for sample construction", field)
}
