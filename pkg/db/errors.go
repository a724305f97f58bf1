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

package db

import "errors"

var (
	ErrDatabaseNotInitialized = errors.New("database not initialized")

	// Ledger lookups.

	ErrAccountNotFound = errors.New("account not found")
	ErrDeviceNotFound  = errors.New("device not found")
	ErrEventNotFound   = errors.New("event not found")

	// ErrClaimLost means the conditional completion matched no row: the claim
	// expired and was taken over, or the account was already advanced today.
	ErrClaimLost = errors.New("account claim lost")

	// Validation.

	ErrDeviceUDIDRequired = errors.New("device udid is required")
	ErrAccountRequired    = errors.New("account platform and username are required")
	ErrEventNil           = errors.New("event is nil")
	ErrDeviceIDRequired   = errors.New("device id is required")
)
