// Copyright 2025 SberCal Authors
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


// Package search ranks event records against free-text queries.
//
// Ranking is a three-stage pipeline:
//
//  1. Semantic scoring: the query is embedded and every corpus vector is
//     scored by dot product (cosine similarity over unit vectors).
//  2. Strict keyword filter: event-type words found in the query
//     ("хакатон", "митап", ...) must appear in the event text at a word
//     boundary, prefix-matched to cover inflected forms.
//  3. Geography filter: when enabled and the query names a Northwest city,
//     only events mentioning one of those cities survive.
//
// Filters run over the full sorted score order, so filtered-out events are
// replaced by the next best matches rather than shrinking the result list.
//
// The RankMonitor interface exposes each stage for diagnostics; see the
// ranking debug command for a sample implementation.
package search
