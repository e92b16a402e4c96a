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

// Package export writes record stores to files.
//
// Four formats are supported: an indented JSON array of ordered records,
// the same array gzip-compressed, the binary MUS record stream, and a
// Badger database directory keyed by transaction id.
//
// A Runner executes a batch of Jobs on a worker pool. Each job writes to a
// temporary path next to its destination and renames it into place, so a
// failed job never leaves a partial file behind. Sources are only read;
// they must not be mutated while a Run is in progress.
package export
