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

package models

import (
	"errors"
	"fmt"
)

// ErrUnknownPlatform is returned when a platform string is not recognised.
var ErrUnknownPlatform = errors.New("unknown platform")

// Platform identifies a target social platform.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube_shorts"
	PlatformReddit    Platform = "reddit"
	PlatformX         Platform = "x_twitter"
)

// AllPlatforms lists every platform in a stable order.
func AllPlatforms() []Platform {
	return []Platform{PlatformTikTok, PlatformInstagram, PlatformYouTube, PlatformReddit, PlatformX}
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTikTok, PlatformInstagram, PlatformYouTube, PlatformReddit, PlatformX:
		return true
	}

	return false
}

// BundleID returns the iOS bundle identifier of the platform's app.
func (p Platform) BundleID() (string, error) {
	switch p {
	case PlatformTikTok:
		return "com.zhiliaoapp.musically", nil
	case PlatformInstagram:
		return "com.burbn.instagram", nil
	case PlatformYouTube:
		return "com.google.ios.youtube", nil
	case PlatformReddit:
		return "com.reddit.Reddit", nil
	case PlatformX:
		return "com.atebits.Tweetie2", nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, string(p))
}

// ParsePlatform converts a string to a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}

	return p, nil
}
