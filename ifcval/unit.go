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

package ifcval

// UnitFamily groups unit symbols convertible into one another by a plain
// scale factor.
type UnitFamily int

const (
	UnitFamilyUnknown UnitFamily = iota
	UnitFamilyLength
	UnitFamilyArea
	UnitFamilyVolume
)

type unitDef struct {
	family UnitFamily
	scale  float64 // multiplier from this unit into the family's base unit
}

// unitDefs is deliberately small: the three quantity families IFC quantity
// sets actually carry (length, area, volume), each in millimetre,
// centimetre, and metre flavors.
var unitDefs = map[string]unitDef{
	"mm": {UnitFamilyLength, 0.001},
	"cm": {UnitFamilyLength, 0.01},
	"m":  {UnitFamilyLength, 1},

	"mm2": {UnitFamilyArea, 0.000001},
	"cm2": {UnitFamilyArea, 0.0001},
	"m2":  {UnitFamilyArea, 1},

	"mm3": {UnitFamilyVolume, 0.000000001},
	"cm3": {UnitFamilyVolume, 0.000001},
	"m3":  {UnitFamilyVolume, 1},
}

// UnitsCompatible reports whether a and b name the same unit family, so a
// caller can distinguish "convertible" from "apples to oranges". Blank
// strings are treated as compatible with anything, since the absence of a
// declared unit isn't a mismatch.
func UnitsCompatible(a, b string) bool {
	if a == "" || b == "" || a == b {
		return true
	}
	ad, aok := unitDefs[a]
	bd, bok := unitDefs[b]
	return aok && bok && ad.family == bd.family
}

// ConvertUnit converts v from unit "from" to unit "to". Blank or matching
// units are a no-op. An unrecognized symbol or a family mismatch reports
// ok=false instead of guessing.
func ConvertUnit(v float64, from, to string) (float64, bool) {
	if from == "" || to == "" || from == to {
		return v, true
	}
	fd, fok := unitDefs[from]
	td, tok := unitDefs[to]
	if !fok || !tok || fd.family != td.family {
		return 0, false
	}
	return v * fd.scale / td.scale, true
}
