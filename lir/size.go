// Copyright 2024 The Nichelang Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lir

import "fmt"

// Size is a byte count.
type Size struct {
	bytes uint64
}

// Zero is the empty size.
var Zero = Size{bytes: 0}

// Bits64 is the size of a u64 or a pointer.
var Bits64 = Size{bytes: 8}

// FromBytes builds a Size from a byte count.
func FromBytes(bytes uint64) Size { return Size{bytes: bytes} }

// Bytes returns the byte count.
func (s Size) Bytes() uint64 { return s.bytes }

func (s Size) String() string {
	if s.bytes == 1 {
		return "1 byte"
	}
	return fmt.Sprintf("%d bytes", s.bytes)
}

// PackedSize is the size of ty's actual data, ignoring any padding a
// real backend's alignment rules would introduce (spec §6.2), roughly
// the notion of size (not stride) used by languages like Swift that
// expose packed-layout structs.
func PackedSize(ty Ty) Size {
	switch t := ty.(type) {
	case TyU64:
		return Bits64
	case TyPtr:
		return Bits64
	case TyRecord:
		var total uint64
		for _, f := range t.Fields.Values() {
			total += PackedSize(f).Bytes()
		}
		return FromBytes(total)
	case TyUntaggedUnion:
		var max uint64
		for _, f := range t.Variants.Values() {
			if sz := PackedSize(f).Bytes(); sz > max {
				max = sz
			}
		}
		return FromBytes(max)
	case TyRecursive:
		return PackedSize(t.Body)
	case TyRecurID:
		// A RecurID's size depends on the enclosing TyRecursive, which
		// isn't visible from here; no lowered program should ever ask
		// for the packed size of one directly (it's always boxed).
		panic("lir: PackedSize of a bare TyRecurID")
	default:
		panic("lir: unreachable Ty variant in PackedSize")
	}
}
