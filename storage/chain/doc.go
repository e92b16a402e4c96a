// Copyright 2025 Poiesic Systems
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

// Package chain implements storage.Store over a singly-linked chain of nodes.
//
// Appends are O(1) through a cached tail reference. Sorting re-links the
// existing nodes and allocates nothing. Clone and CopyFrom always build a
// fresh chain, and Release unlinks iteratively, so very long chains are safe
// to drop.
package chain
