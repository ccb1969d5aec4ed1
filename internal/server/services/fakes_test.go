package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/aleksvarts/classroom-auth/internal/common"
	"github.com/aleksvarts/classroom-auth/internal/dbx"
	"github.com/aleksvarts/classroom-auth/internal/server/email"
	"github.com/aleksvarts/classroom-auth/internal/server/models"
	otpsrepo "github.com/aleksvarts/classroom-auth/internal/server/repositories/otps"
	revokedrepo "github.com/aleksvarts/classroom-auth/internal/server/repositories/revokedtokens"
	usersrepo "github.com/aleksvarts/classroom-auth/internal/server/repositories/users"
)

// --- in-memory fakes shared by the service tests ---

type fakeUsersRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	err     error
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byEmail: map[string]*models.User{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type memRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	saveErr error
}

func newMemRevocations() *memRevocations {
	return &memRevocations{entries: map[string]time.Time{}}
}

func (m *memRevocations) Save(ctx context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries[jti] = expiresAt
	return nil
}

func (m *memRevocations) Contains(ctx context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[jti]
	return ok, nil
}

func (m *memRevocations) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for jti, exp := range m.entries {
		if exp.Before(now) {
			delete(m.entries, jti)
			n++
		}
	}
	return n, nil
}

type memOTPRepo struct {
	mu   sync.Mutex
	seq  int64
	rows []*models.OTP
}

func newMemOTPRepo() *memOTPRepo { return &memOTPRepo{} }

func (m *memOTPRepo) Save(ctx context.Context, otp *models.OTP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	otp.ID = m.seq
	cp := *otp
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memOTPRepo) FindLatestByEmail(ctx context.Context, email string) (*models.OTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.OTP
	for _, row := range m.rows {
		if row.Email != email {
			continue
		}
		if latest == nil || row.ExpiresAt.After(latest.ExpiresAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, common.ErrorNotFound
	}
	cp := *latest
	return &cp, nil
}

// MarkUsed mirrors the SQL compare-and-swap: the check and the flip happen
// under one lock, so concurrent redeems see exactly one winner.
func (m *memOTPRepo) MarkUsed(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			if row.Used {
				return false, nil
			}
			row.Used = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memOTPRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var n int64
	for _, row := range m.rows {
		if row.ExpiresAt.Before(now) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	m.rows = kept
	return n, nil
}

type fakeRepoManager struct {
	u usersrepo.Repository
	r revokedrepo.Repository
	o otpsrepo.Repository
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) RevokedTokens(db dbx.DBTX) revokedrepo.Repository { return m.r }
func (m *fakeRepoManager) OTPs(db dbx.DBTX) otpsrepo.Repository            { return m.o }
func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

type sentMessage struct {
	To       string
	Template string
	Args     []string
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeDispatcher) Send(ctx context.Context, toEmail, template string, args ...string) (*email.DispatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sentMessage{To: toEmail, Template: template, Args: args})
	return &email.DispatchResult{Success: true, Subject: template}, nil
}
