/*
 * Copyright 2026 The Sovi Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package automation

import (
	"fmt"
	"sync"

	"github.com/ehmo/sovi/pkg/models"
)

// AppName is the App Store listing name for a platform.
func AppName(p models.Platform) (string, error) {
	switch p {
	case models.PlatformTikTok:
		return "TikTok", nil
	case models.PlatformInstagram:
		return "Instagram", nil
	case models.PlatformYouTube:
		return "YouTube", nil
	case models.PlatformReddit:
		return "Reddit", nil
	case models.PlatformX:
		return "X", nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, string(p))
}

// Playbooks maps each platform to the playbook that drives it.
type Playbooks struct {
	mu    sync.RWMutex
	books map[models.Platform]Playbook
}

// NewPlaybooks returns an empty registry.
func NewPlaybooks() *Playbooks {
	return &Playbooks{books: make(map[models.Platform]Playbook)}
}

// Register binds a playbook to a platform, replacing any previous one.
func (r *Playbooks) Register(p models.Platform, book Playbook) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedPlatform, string(p))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.books[p] = book

	return nil
}

// Lookup returns the playbook for p.
func (r *Playbooks) Lookup(p models.Platform) (Playbook, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, string(p))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlaybookUnavailable, p)
	}

	return book, nil
}

// Platforms lists platforms with a registered playbook, in AllPlatforms order.
func (r *Playbooks) Platforms() []models.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Platform, 0, len(r.books))

	for _, p := range models.AllPlatforms() {
		if _, ok := r.books[p]; ok {
			out = append(out, p)
		}
	}

	return out
}
