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

package wda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ehmo/sovi/pkg/automation"
	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

type fakeWDA struct {
	mu            sync.Mutex
	ready         bool
	uninstallCode int
	appState      int
	calls         []string
	bodies        map[string]map[string]interface{}
}

func (f *fakeWDA) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	f.calls = append(f.calls, key)

	if r.Body != nil {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			if f.bodies == nil {
				f.bodies = make(map[string]map[string]interface{})
			}

			f.bodies[key] = body
		}
	}

	switch {
	case key == "GET /status":
		writeJSON(w, map[string]interface{}{"value": map[string]interface{}{"ready": f.ready}})
	case key == "POST /session":
		writeJSON(w, map[string]interface{}{"value": map[string]interface{}{"sessionId": "sess-1"}})
	case strings.HasSuffix(key, "/wda/apps/uninstall"):
		code := f.uninstallCode
		if code == 0 {
			code = http.StatusOK
		}

		w.WriteHeader(code)
		writeJSON(w, map[string]interface{}{"value": nil})
	case strings.HasSuffix(key, "/wda/apps/state"):
		writeJSON(w, map[string]interface{}{"value": f.appState})
	default:
		writeJSON(w, map[string]interface{}{"value": nil})
	}
}

func (f *fakeWDA) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.calls {
		if c == key {
			return true
		}
	}

	return false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	_ = json.NewEncoder(w).Encode(v)
}

func newTestDriver(t *testing.T, fake *fakeWDA, books *automation.Playbooks) (*Driver, *models.Device) {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	client := NewClient(ClientConfig{Host: u.Hostname(), Timeout: 5 * time.Second})
	d := NewDriver(client, books, logger.NewTestLogger())
	d.installPoll = 10 * time.Millisecond

	return d, &models.Device{ID: "dev-1", Name: "iPhone A", WDAPort: port}
}

func TestIsReady(t *testing.T) {
	fake := &fakeWDA{ready: true}
	d, device := newTestDriver(t, fake, nil)

	assert.True(t, d.IsReady(context.Background(), device, time.Second))

	fake.mu.Lock()
	fake.ready = false
	fake.mu.Unlock()

	assert.False(t, d.IsReady(context.Background(), device, time.Second))

	unreachable := &models.Device{ID: "gone", WDAPort: 1}
	assert.False(t, d.IsReady(context.Background(), unreachable, 200*time.Millisecond))
}

func TestConnectResetDisconnect(t *testing.T) {
	fake := &fakeWDA{ready: true}
	d, device := newTestDriver(t, fake, nil)
	ctx := context.Background()

	session, err := d.Connect(ctx, device)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.ID)
	assert.Equal(t, "dev-1", session.DeviceID)

	require.NoError(t, d.ResetAppIdentity(ctx, session, models.PlatformTikTok))
	assert.True(t, fake.called("POST /session/sess-1/wda/apps/terminate"))
	assert.True(t, fake.called("POST /session/sess-1/wda/apps/uninstall"))
	assert.Equal(t, "com.zhiliaoapp.musically", fake.bodies["POST /session/sess-1/wda/apps/uninstall"]["bundleId"])

	require.NoError(t, d.Disconnect(ctx, session))
	assert.True(t, fake.called("POST /session/sess-1/wda/pressButton"))
	assert.True(t, fake.called("DELETE /session/sess-1"))
}

func TestResetFailure(t *testing.T) {
	fake := &fakeWDA{uninstallCode: http.StatusInternalServerError}
	d, device := newTestDriver(t, fake, nil)
	ctx := context.Background()

	session, err := d.Connect(ctx, device)
	require.NoError(t, err)

	err = d.ResetAppIdentity(ctx, session, models.PlatformInstagram)
	require.ErrorIs(t, err, automation.ErrResetFailed)

	err = d.ResetAppIdentity(ctx, session, models.Platform("myspace"))
	require.ErrorIs(t, err, automation.ErrUnsupportedPlatform)
}

func TestSessionRequired(t *testing.T) {
	d, _ := newTestDriver(t, &fakeWDA{}, nil)
	ctx := context.Background()

	require.ErrorIs(t, d.Disconnect(ctx, nil), automation.ErrSessionNotConnected)
	require.ErrorIs(t, d.ResetAppIdentity(ctx, &automation.Session{}, models.PlatformTikTok),
		automation.ErrSessionNotConnected)
}

func TestPlaybookDelegation(t *testing.T) {
	ctrl := gomock.NewController(t)
	book := automation.NewMockPlaybook(ctrl)

	books := automation.NewPlaybooks()
	require.NoError(t, books.Register(models.PlatformTikTok, book))

	fake := &fakeWDA{ready: true, appState: AppStateNotRunning}
	d, device := newTestDriver(t, fake, books)
	ctx := context.Background()

	session, err := d.Connect(ctx, device)
	require.NoError(t, err)

	creds := &models.AccountCredentials{Username: "u", Password: "p"}

	book.EXPECT().Install(gomock.Any(), session).Return(nil)
	book.EXPECT().Login(gomock.Any(), session, creds).Return(nil)
	book.EXPECT().Warmup(gomock.Any(), session, models.WarmingPhaseLight, 30*time.Minute).
		Return(&models.SessionResult{VideosWatched: 12, Likes: 2}, nil)

	require.NoError(t, d.InstallApp(ctx, session, models.PlatformTikTok, time.Second))
	require.NoError(t, d.Authenticate(ctx, session, models.PlatformTikTok, creds))

	result, err := d.RunWarmupSession(ctx, session, models.PlatformTikTok, models.WarmingPhaseLight, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 12, result.VideosWatched)
	assert.Positive(t, result.Duration)
	assert.True(t, fake.called("POST /session/sess-1/wda/apps/activate"))
}

func TestPlaybookFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	book := automation.NewMockPlaybook(ctrl)

	books := automation.NewPlaybooks()
	require.NoError(t, books.Register(models.PlatformInstagram, book))

	fake := &fakeWDA{appState: AppStateUnknown}
	d, device := newTestDriver(t, fake, books)
	ctx := context.Background()

	session, err := d.Connect(ctx, device)
	require.NoError(t, err)

	book.EXPECT().Install(gomock.Any(), session).Return(nil)
	err = d.InstallApp(ctx, session, models.PlatformInstagram, 50*time.Millisecond)
	require.ErrorIs(t, err, automation.ErrInstallFailed)

	book.EXPECT().Login(gomock.Any(), session, gomock.Any()).Return(errors.New("captcha"))
	err = d.Authenticate(ctx, session, models.PlatformInstagram, &models.AccountCredentials{})
	require.ErrorIs(t, err, automation.ErrAuthFailed)

	err = d.Authenticate(ctx, session, models.PlatformInstagram, nil)
	require.ErrorIs(t, err, automation.ErrAuthFailed)

	err = d.InstallApp(ctx, session, models.PlatformTikTok, time.Second)
	require.ErrorIs(t, err, automation.ErrPlaybookUnavailable)
}

type signUpBook struct {
	*automation.MockPlaybook
	username string
}

func (b signUpBook) SignUp(context.Context, *automation.Session) (*automation.CreatedAccount, error) {
	return &automation.CreatedAccount{Username: b.username}, nil
}

func TestCreateAccount(t *testing.T) {
	ctrl := gomock.NewController(t)

	books := automation.NewPlaybooks()
	require.NoError(t, books.Register(models.PlatformTikTok, automation.NewMockPlaybook(ctrl)))
	require.NoError(t, books.Register(models.PlatformInstagram, signUpBook{
		MockPlaybook: automation.NewMockPlaybook(ctrl),
		username:     "fresh",
	}))

	d, device := newTestDriver(t, &fakeWDA{}, books)
	ctx := context.Background()

	session, err := d.Connect(ctx, device)
	require.NoError(t, err)

	_, err = d.CreateAccount(ctx, session, models.PlatformTikTok)
	require.ErrorIs(t, err, automation.ErrCreationUnsupported)

	_, err = d.CreateAccount(ctx, session, models.PlatformReddit)
	require.ErrorIs(t, err, automation.ErrCreationUnsupported)

	created, err := d.CreateAccount(ctx, session, models.PlatformInstagram)
	require.NoError(t, err)
	assert.Equal(t, "fresh", created.Username)
}
