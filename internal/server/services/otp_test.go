package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksvarts/classroom-auth/internal/common"
)

func newTestOTPService(t *testing.T, otps *memOTPRepo, dispatcher *fakeDispatcher, now time.Time) *OTPService {
	t.Helper()
	cfg := testConfig()
	repos := &fakeRepoManager{u: newFakeUsersRepo(), r: newMemRevocations(), o: otps}
	svc := NewOTPService(nil, repos, dispatcher, testLogger(), cfg)
	return svc.WithClock(func() time.Time { return now })
}

// issueCode runs GenerateAndSend and returns the code that was dispatched.
func issueCode(t *testing.T, svc *OTPService, dispatcher *fakeDispatcher, email string) string {
	t.Helper()
	ctx := context.Background()

	result, err := svc.GenerateAndSend(ctx, email, "email-verification", "Ada")
	require.NoError(t, err)
	require.True(t, result.Success)

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	require.NotEmpty(t, dispatcher.sent)
	msg := dispatcher.sent[len(dispatcher.sent)-1]
	require.Equal(t, email, msg.To)
	require.Equal(t, "email-verification", msg.Template)
	// the code is appended after the caller-provided args
	require.Len(t, msg.Args, 2)
	return msg.Args[1]
}

func TestOTP_GenerateAndVerify(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	otps := newMemOTPRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestOTPService(t, otps, dispatcher, now)

	code := issueCode(t, svc, dispatcher, "ada@classroom.local")
	assert.Len(t, code, 6)

	email, err := svc.Verify(ctx, "ada@classroom.local", code)
	require.NoError(t, err)
	assert.Equal(t, "ada@classroom.local", email)

	// a second redeem of the same code is rejected
	_, err = svc.Verify(ctx, "ada@classroom.local", code)
	assert.ErrorIs(t, err, common.ErrOTPAlreadyUsed)
}

func TestOTP_VerifyFailures(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	otps := newMemOTPRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestOTPService(t, otps, dispatcher, now)

	t.Run("no code issued", func(t *testing.T) {
		_, err := svc.Verify(ctx, "nobody@classroom.local", "123456")
		assert.ErrorIs(t, err, common.ErrOTPNotFound)
	})

	code := issueCode(t, svc, dispatcher, "ada@classroom.local")

	t.Run("wrong code", func(t *testing.T) {
		wrong := "000000"
		if code == wrong {
			wrong = "000001"
		}
		_, err := svc.Verify(ctx, "ada@classroom.local", wrong)
		assert.ErrorIs(t, err, common.ErrOTPInvalid)
	})

	t.Run("expired code", func(t *testing.T) {
		svc.WithClock(func() time.Time { return now.Add(6 * time.Minute) })
		defer svc.WithClock(func() time.Time { return now })
		_, err := svc.Verify(ctx, "ada@classroom.local", code)
		assert.ErrorIs(t, err, common.ErrOTPExpired)
	})

	// failed attempts do not consume the code
	email, err := svc.Verify(ctx, "ada@classroom.local", code)
	require.NoError(t, err)
	assert.Equal(t, "ada@classroom.local", email)
}

func TestOTP_NewCodeSupersedesOld(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	otps := newMemOTPRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestOTPService(t, otps, dispatcher, now)

	oldCode := issueCode(t, svc, dispatcher, "ada@classroom.local")

	// a second code pushes the expiry horizon forward, making it the
	// latest record for the address
	svc.WithClock(func() time.Time { return now.Add(time.Minute) })
	newCode := issueCode(t, svc, dispatcher, "ada@classroom.local")

	if oldCode != newCode {
		_, err := svc.Verify(ctx, "ada@classroom.local", oldCode)
		assert.ErrorIs(t, err, common.ErrOTPInvalid)
	}

	email, err := svc.Verify(ctx, "ada@classroom.local", newCode)
	require.NoError(t, err)
	assert.Equal(t, "ada@classroom.local", email)
}

func TestOTP_ConcurrentRedeem_SingleWinner(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	otps := newMemOTPRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestOTPService(t, otps, dispatcher, now)

	code := issueCode(t, svc, dispatcher, "ada@classroom.local")

	const callers = 16
	var wg sync.WaitGroup
	results := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Verify(ctx, "ada@classroom.local", code)
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		default:
			assert.ErrorIs(t, err, common.ErrOTPAlreadyUsed)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, losses)
}
