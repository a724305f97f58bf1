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

import "time"

// AccountState is the lifecycle position of an account.
type AccountState string

const (
	AccountStateCreated   AccountState = "created"
	AccountStateWarmingP1 AccountState = "warming_p1"
	AccountStateWarmingP2 AccountState = "warming_p2"
	AccountStateWarmingP3 AccountState = "warming_p3"
	AccountStateActive    AccountState = "active"

	// Exception states are set by external signals only.
	AccountStateResting      AccountState = "resting"
	AccountStateCooldown     AccountState = "cooldown"
	AccountStateFlagged      AccountState = "flagged"
	AccountStateRestricted   AccountState = "restricted"
	AccountStateShadowbanned AccountState = "shadowbanned"
	AccountStateSuspended    AccountState = "suspended"
	AccountStateBanned       AccountState = "banned"
)

// Day thresholds of the warm-up program.
const (
	lastPhaseOneDay   = 3
	lastPhaseTwoDay   = 7
	lastPhaseThreeDay = 14
)

// WarmableStates are the states the scheduler may pick up, least progressed first.
func WarmableStates() []AccountState {
	return []AccountState{
		AccountStateCreated,
		AccountStateWarmingP1,
		AccountStateWarmingP2,
		AccountStateWarmingP3,
		AccountStateActive,
	}
}

// Rank orders warmable states; -1 for states the scheduler never touches.
func (s AccountState) Rank() int {
	switch s {
	case AccountStateCreated:
		return 0
	case AccountStateWarmingP1:
		return 1
	case AccountStateWarmingP2:
		return 2
	case AccountStateWarmingP3:
		return 3
	case AccountStateActive:
		return 4
	case AccountStateResting, AccountStateCooldown, AccountStateFlagged, AccountStateRestricted,
		AccountStateShadowbanned, AccountStateSuspended, AccountStateBanned:
		return -1
	}

	return -1
}

// Warmable reports whether the scheduler may select an account in state s.
func (s AccountState) Warmable() bool {
	return s.Rank() >= 0
}

// StateForDay maps a completed warm-up day count to its lifecycle state.
func StateForDay(day int) AccountState {
	switch {
	case day <= 0:
		return AccountStateCreated
	case day <= lastPhaseOneDay:
		return AccountStateWarmingP1
	case day <= lastPhaseTwoDay:
		return AccountStateWarmingP2
	case day <= lastPhaseThreeDay:
		return AccountStateWarmingP3
	default:
		return AccountStateActive
	}
}

// WarmingPhase is the intensity of a warm-up session.
type WarmingPhase string

const (
	WarmingPhasePassive  WarmingPhase = "passive"
	WarmingPhaseLight    WarmingPhase = "light"
	WarmingPhaseModerate WarmingPhase = "moderate"
)

// PhaseForState picks the session intensity for an account state.
func PhaseForState(s AccountState) WarmingPhase {
	switch s {
	case AccountStateWarmingP2, AccountStateActive:
		return WarmingPhaseLight
	case AccountStateWarmingP3:
		return WarmingPhaseModerate
	default:
		return WarmingPhasePassive
	}
}

// Credentials holds the encrypted login material of an account.
// The scheduler never inspects the ciphertexts beyond handing them to a decrypter.
type Credentials struct {
	EmailEnc      string `json:"-"`
	PasswordEnc   string `json:"-"`
	TOTPSecretEnc string `json:"-"`
}

// AccountCredentials is the decrypted form of Credentials, handed to the
// automation layer just before login and never persisted.
type AccountCredentials struct {
	Username   string `json:"-"`
	Email      string `json:"-"`
	Password   string `json:"-"`
	TOTPSecret string `json:"-"`
}

// Account is a managed identity on a platform.
type Account struct {
	ID              string       `json:"id"`
	Platform        Platform     `json:"platform"`
	Username        string       `json:"username"`
	CurrentState    AccountState `json:"current_state"`
	WarmingDayCount int          `json:"warming_day_count"`
	LastWarmedAt    *time.Time   `json:"last_warmed_at,omitempty"`
	LastActivityAt  *time.Time   `json:"last_activity_at,omitempty"`
	DeviceID        *string      `json:"device_id,omitempty"`
	Credentials     Credentials  `json:"-"`
	ClaimedBy       *string      `json:"claimed_by,omitempty"`
	ClaimExpiresAt  *time.Time   `json:"claim_expires_at,omitempty"`
	DeletedAt       *time.Time   `json:"deleted_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// WarmedSince reports whether the account was warmed at or after dayStart.
func (a *Account) WarmedSince(dayStart time.Time) bool {
	return a.LastWarmedAt != nil && !a.LastWarmedAt.Before(dayStart)
}

// Clone returns a deep copy so ledgers can hand out rows safely.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}

	out := *a
	out.LastWarmedAt = cloneTime(a.LastWarmedAt)
	out.LastActivityAt = cloneTime(a.LastActivityAt)
	out.ClaimExpiresAt = cloneTime(a.ClaimExpiresAt)
	out.DeletedAt = cloneTime(a.DeletedAt)
	out.DeviceID = cloneString(a.DeviceID)
	out.ClaimedBy = cloneString(a.ClaimedBy)

	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := *t

	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}

	v := *s

	return &v
}
