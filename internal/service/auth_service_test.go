package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brixxspace/brixxspace-api/internal/logging"
	"github.com/brixxspace/brixxspace-api/internal/mailer"
	"github.com/brixxspace/brixxspace-api/internal/model"
	"github.com/brixxspace/brixxspace-api/internal/queue"
	"github.com/brixxspace/brixxspace-api/internal/repository"
	"github.com/brixxspace/brixxspace-api/internal/utils"
)

// ---- fakes ----

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint64
	byMail map[string]model.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byMail: map[string]model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User, password string, cost int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byMail[u.Email]; ok {
		return repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	f.nextID++
	u.ID = f.nextID
	u.PasswordHash = hash
	f.byMail[u.Email] = *u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byMail[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byMail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byMail[email]
	return ok, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uint64, p model.ProfilePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, u := range f.byMail {
		if u.ID != id {
			continue
		}
		if p.FullName != nil {
			u.FullName = *p.FullName
		}
		if p.Phone != nil {
			u.Phone = *p.Phone
		}
		if p.Company != nil {
			u.Company = *p.Company
		}
		if p.Avatar != nil {
			u.Avatar = *p.Avatar
		}
		f.byMail[k] = u
		return nil
	}
	return repository.ErrNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, email, password string, cost int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byMail[email]
	if !ok {
		return repository.ErrNotFound
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	f.byMail[email] = u
	return nil
}

type fakeOtps struct {
	mu     sync.Mutex
	nextID uint64
	recs   []model.OtpRecord
}

func (f *fakeOtps) DeleteByEmail(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.recs[:0]
	for _, r := range f.recs {
		if r.Email != email {
			kept = append(kept, r)
		}
	}
	f.recs = kept
	return nil
}

func (f *fakeOtps) Insert(_ context.Context, o *model.OtpRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	o.ID = f.nextID
	f.recs = append(f.recs, *o)
	return nil
}

func (f *fakeOtps) DeleteByID(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.recs {
		if r.ID == id {
			f.recs = append(f.recs[:i], f.recs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeOtps) FindMatch(_ context.Context, email, code string) (model.OtpRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.recs) - 1; i >= 0; i-- {
		if f.recs[i].Email == email && f.recs[i].Code == code {
			return f.recs[i], nil
		}
	}
	return model.OtpRecord{}, repository.ErrNotFound
}

func (f *fakeOtps) count(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.recs {
		if r.Email == email {
			n++
		}
	}
	return n
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakePublisher struct {
	events []queue.UserRegisteredEvent
	err    error
}

func (p *fakePublisher) PublishUserRegistered(_ context.Context, ev queue.UserRegisteredEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

// ---- harness ----

type harness struct {
	svc   *AuthService
	users *fakeUsers
	otps  *fakeOtps
	mail  *fakeMailer
	pub   *fakePublisher
	now   time.Time
	codes []string
}

func newHarness(t *testing.T, mutate ...func(*AuthOptions)) *harness {
	t.Helper()
	opts := AuthOptions{
		JWTSecret:   "test-secret",
		SessionTTL:  30 * 24 * time.Hour,
		BcryptCost:  4,
		OTPTTL:      10 * time.Minute,
		AdminEmails: []string{"admin@brixxspace.com"},
	}
	for _, m := range mutate {
		m(&opts)
	}
	h := &harness{
		users: newFakeUsers(),
		otps:  &fakeOtps{},
		mail:  &fakeMailer{},
		pub:   &fakePublisher{},
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	h.svc = NewAuthService(opts, h.users, h.otps, h.mail, h.pub, logging.Discard())
	h.svc.Now = func() time.Time { return h.now }
	h.svc.NewCode = func() (string, error) {
		if len(h.codes) == 0 {
			return "000000", nil
		}
		c := h.codes[0]
		h.codes = h.codes[1:]
		return c, nil
	}
	return h
}

func (h *harness) register(t *testing.T, email, password string) AuthResult {
	t.Helper()
	res, err := h.svc.Register(context.Background(), RegisterInput{FullName: "Test User", Email: email, Password: password})
	require.NoError(t, err)
	return res
}

// ---- tests ----

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		c, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, c, 6)
		for _, r := range c {
			assert.True(t, r >= '0' && r <= '9', "non-digit in %q", c)
		}
	}
}

func TestSendOTP_SignupUnregistered(t *testing.T) {
	h := newHarness(t)
	h.codes = []string{"123456"}

	require.NoError(t, h.svc.SendOTP(context.Background(), "a@x.com", model.OTPSignup))

	assert.Equal(t, 1, h.otps.count("a@x.com"))
	require.Len(t, h.mail.sent, 1)
	assert.Equal(t, "a@x.com", h.mail.sent[0].Email)
	assert.Contains(t, h.mail.sent[0].Body, "123456")
	assert.Contains(t, h.mail.sent[0].Body, "10 minutes")
	assert.Equal(t, h.now.Add(10*time.Minute), h.otps.recs[0].ExpiresAt)
}

func TestSendOTP_SignupRegisteredConflict(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@x.com", "secret1")

	err := h.svc.SendOTP(context.Background(), "a@x.com", model.OTPSignup)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 0, h.otps.count("a@x.com"))
	assert.Empty(t, h.mail.sent)
}

func TestSendOTP_ForgotUnregisteredNotFound(t *testing.T) {
	h := newHarness(t)
	err := h.svc.SendOTP(context.Background(), "ghost@x.com", model.OTPForgotPassword)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, h.otps.count("ghost@x.com"))
}

func TestSendOTP_Validation(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.svc.SendOTP(context.Background(), "", model.OTPSignup), ErrValidation)
	assert.ErrorIs(t, h.svc.SendOTP(context.Background(), "a@x.com", "bogus"), ErrValidation)
}

func TestSendOTP_SupersedesPrevious(t *testing.T) {
	h := newHarness(t)
	h.codes = []string{"111111", "222222"}
	ctx := context.Background()

	require.NoError(t, h.svc.SendOTP(ctx, "a@x.com", model.OTPSignup))
	require.NoError(t, h.svc.SendOTP(ctx, "a@x.com", model.OTPSignup))

	assert.Equal(t, 1, h.otps.count("a@x.com"))
	assert.ErrorIs(t, h.svc.VerifyOTP(ctx, "a@x.com", "111111"), ErrInvalidOTP)
	assert.NoError(t, h.svc.VerifyOTP(ctx, "a@x.com", "222222"))
}

func TestSendOTP_MailFailureRemovesRecord(t *testing.T) {
	h := newHarness(t)
	h.mail.err = errors.New("relay down")

	err := h.svc.SendOTP(context.Background(), "a@x.com", model.OTPSignup)
	require.Error(t, err)
	var se *Error
	assert.False(t, errors.As(err, &se), "mail failure must surface as an internal error")
	assert.Equal(t, 0, h.otps.count("a@x.com"))
}

func TestVerifyOTP(t *testing.T) {
	h := newHarness(t)
	h.codes = []string{"123456"}
	ctx := context.Background()
	require.NoError(t, h.svc.SendOTP(ctx, "a@x.com", model.OTPSignup))

	assert.NoError(t, h.svc.VerifyOTP(ctx, "a@x.com", "123456"))
	// non-consuming: a second check still passes
	assert.NoError(t, h.svc.VerifyOTP(ctx, "a@x.com", "123456"))
	assert.ErrorIs(t, h.svc.VerifyOTP(ctx, "a@x.com", "999999"), ErrInvalidOTP)
	assert.ErrorIs(t, h.svc.VerifyOTP(ctx, "b@x.com", "123456"), ErrInvalidOTP)
	assert.ErrorIs(t, h.svc.VerifyOTP(ctx, "a@x.com", ""), ErrValidation)
}

func TestVerifyOTP_Expired(t *testing.T) {
	h := newHarness(t)
	h.codes = []string{"123456"}
	ctx := context.Background()
	require.NoError(t, h.svc.SendOTP(ctx, "a@x.com", model.OTPSignup))

	h.now = h.now.Add(10 * time.Minute)
	err := h.svc.VerifyOTP(ctx, "a@x.com", "123456")
	require.ErrorIs(t, err, ErrInvalidOTP)
	assert.Equal(t, "invalid or expired OTP", err.Error())
}

func TestRegister_RoleAssignment(t *testing.T) {
	h := newHarness(t)

	admin := h.register(t, "admin@brixxspace.com", "secret1")
	assert.Equal(t, model.RoleAdmin, admin.User.Role)

	user := h.register(t, "someone@x.com", "secret1")
	assert.Equal(t, model.RoleUser, user.User.Role)

	// exact match only
	shouty := h.register(t, "Admin@brixxspace.com", "secret1")
	assert.Equal(t, model.RoleUser, shouty.User.Role)
}

func TestRegister_TokenAndEvent(t *testing.T) {
	h := newHarness(t)
	res := h.register(t, "a@x.com", "secret1")

	claims, err := utils.ParseSessionToken("test-secret", res.Token.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)
	assert.Equal(t, model.RoleUser, claims.Role)

	require.Len(t, h.pub.events, 1)
	assert.Equal(t, "a@x.com", h.pub.events[0].Email)
	assert.Equal(t, res.User.ID, h.pub.events[0].UserID)
}

func TestRegister_PublishFailureIgnored(t *testing.T) {
	h := newHarness(t)
	h.pub.err = errors.New("broker down")
	h.register(t, "a@x.com", "secret1")
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cases := []RegisterInput{
		{Email: "a@x.com", Password: "secret1"},
		{FullName: "A", Password: "secret1"},
		{FullName: "A", Email: "a@x.com"},
		{FullName: "A", Email: "a@x.com", Password: "short"},
		{FullName: "A", Email: "not-an-email", Password: "secret1"},
	}
	for _, in := range cases {
		_, err := h.svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, "%+v", in)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@x.com", "secret1")
	_, err := h.svc.Register(context.Background(), RegisterInput{FullName: "B", Email: "a@x.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_WithOTP(t *testing.T) {
	h := newHarness(t, func(o *AuthOptions) { o.RequireSignupOTP = true })
	h.codes = []string{"654321"}
	ctx := context.Background()

	_, err := h.svc.Register(ctx, RegisterInput{FullName: "A", Email: "a@x.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrValidation)

	require.NoError(t, h.svc.SendOTP(ctx, "a@x.com", model.OTPSignup))
	_, err = h.svc.Register(ctx, RegisterInput{FullName: "A", Email: "a@x.com", Password: "secret1", OTP: "000000"})
	require.ErrorIs(t, err, ErrInvalidOTP)

	_, err = h.svc.Register(ctx, RegisterInput{FullName: "A", Email: "a@x.com", Password: "secret1", OTP: "654321"})
	require.NoError(t, err)
	assert.Equal(t, 0, h.otps.count("a@x.com"), "signup code is consumed")
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	reg := h.register(t, "a@x.com", "secret1")
	ctx := context.Background()

	res, err := h.svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	claims, err := utils.ParseSessionToken("test-secret", res.Token.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, reg.User.ID, res.User.ID)

	res, err = h.svc.Login(ctx, "a@x.com", "wrong-pass")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, res.Token.Token)

	_, err = h.svc.Login(ctx, "nobody@x.com", "secret1")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestResetPassword(t *testing.T) {
	h := newHarness(t)
	h.codes = []string{"777777"}
	ctx := context.Background()
	h.register(t, "a@x.com", "secret1")

	require.NoError(t, h.svc.SendOTP(ctx, "a@x.com", model.OTPForgotPassword))
	assert.ErrorIs(t, h.svc.ResetPassword(ctx, "a@x.com", "000000", "newpass1"), ErrInvalidOTP)
	assert.ErrorIs(t, h.svc.ResetPassword(ctx, "a@x.com", "777777", "123"), ErrValidation)
	require.NoError(t, h.svc.ResetPassword(ctx, "a@x.com", "777777", "newpass1"))

	_, err := h.svc.Login(ctx, "a@x.com", "newpass1")
	assert.NoError(t, err)
	_, err = h.svc.Login(ctx, "a@x.com", "secret1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// the code is single-use at consumption time
	assert.ErrorIs(t, h.svc.ResetPassword(ctx, "a@x.com", "777777", "again123"), ErrInvalidOTP)
}

func TestResetPassword_UnknownUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	// a stale code left for an address that no longer has an account
	require.NoError(t, h.otps.Insert(ctx, &model.OtpRecord{Email: "ghost@x.com", Code: "123456", ExpiresAt: h.now.Add(time.Minute)}))
	assert.ErrorIs(t, h.svc.ResetPassword(ctx, "ghost@x.com", "123456", "newpass1"), ErrNotFound)
}

func TestProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	reg := h.register(t, "a@x.com", "secret1")

	u, err := h.svc.Profile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	phone, name := "+40 700 000 000", "Ana Pop"
	u, err = h.svc.UpdateProfile(ctx, reg.User.ID, model.ProfilePatch{Phone: &phone, FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, phone, u.Phone)
	assert.Equal(t, name, u.FullName)
	assert.Equal(t, model.RoleUser, u.Role)

	empty := "  "
	_, err = h.svc.UpdateProfile(ctx, reg.User.ID, model.ProfilePatch{FullName: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.Profile(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
