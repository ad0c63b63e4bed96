/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/textlayout"
)

// textLineStep is the advance between wrapped lines in world units across
// backends, so SVG and PNG output break text identically.
const textLineStep = 16.0

// wrapElementText breaks a text element's content into lines fitting the
// element box. Elements without a usable width render as a single line.
func wrapElementText(el domain.Element) []string {
	style, _ := textlayout.GetStyle("Note")
	if el.Width <= 0 {
		return []string{el.Text}
	}
	return textlayout.WrapString(textlayout.BasicProvider{}, style, el.Text, float32(el.Width))
}
