package auth_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/auth"
	"github.com/jansssss/jbfPL/internal/notification"
	"github.com/jansssss/jbfPL/internal/principal"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

type mockPrincipalRepo struct {
	byEmail   map[string]*principal.Principal
	byID      map[string]*principal.Principal
	createErr error
	updateErr error
	created   []*principal.Principal
}

func newMockPrincipalRepo() *mockPrincipalRepo {
	return &mockPrincipalRepo{
		byEmail: make(map[string]*principal.Principal),
		byID:    make(map[string]*principal.Principal),
	}
}

func (m *mockPrincipalRepo) GetByEmail(ctx context.Context, email string) (*principal.Principal, error) {
	p, ok := m.byEmail[email]
	if !ok {
		return nil, internal.ErrPrincipalNotFound
	}
	return p, nil
}

func (m *mockPrincipalRepo) GetByID(ctx context.Context, id string) (*principal.Principal, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, internal.ErrPrincipalNotFound
	}
	return p, nil
}

func (m *mockPrincipalRepo) Create(ctx context.Context, p *principal.Principal) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = "id-" + p.Email
	m.byEmail[p.Email] = p
	m.byID[p.ID] = p
	m.created = append(m.created, p)
	return nil
}

func (m *mockPrincipalRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) (*principal.Principal, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, internal.ErrPrincipalNotFound
	}
	if v, ok := fields["name"].(string); ok {
		p.Name = v
	}
	if v, ok := fields["password_hash"].(string); ok {
		p.PasswordHash = v
	}
	if v, ok := fields["first_login"].(bool); ok {
		p.FirstLogin = v
	}
	return p, nil
}

type recordingNotifier struct {
	notices []notification.Notice
}

func (n *recordingNotifier) Notify(ctx context.Context, text string, severity notification.Severity) {
	n.notices = append(n.notices, notification.Notice{Text: text, Severity: severity})
}

var _ = Describe("Auth Service", func() {
	var (
		repo     *mockPrincipalRepo
		notifier *recordingNotifier
		svc      *auth.Service
	)

	newService := func() *auth.Service {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		tokens := auth.NewJWTTokenGenerator(
			"access-secret-access-secret-access-secret",
			"refresh-secret-refresh-secret-refresh",
			15*time.Minute,
			7*24*time.Hour,
		)
		return auth.NewService(repo, tokens, notifier, "jbf.kr", bcrypt.MinCost, logger)
	}

	BeforeEach(func() {
		repo = newMockPrincipalRepo()
		notifier = &recordingNotifier{}
		svc = newService()
	})

	Describe("SignUp", func() {
		It("creates a level 1 principal with first_login set", func() {
			err := svc.SignUp(context.Background(), auth.SignUpDTO{
				Identifier: "hong",
				Password:   "secret1",
				Name:       "홍길동",
				Center:     "바이오융합센터",
				Team:       "기획팀",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.created).To(HaveLen(1))
			p := repo.created[0]
			Expect(p.AccessLevel).To(Equal(1))
			Expect(p.FirstLogin).To(BeTrue())
			Expect(p.Email).To(Equal("hong@jbf.kr"))
			Expect(p.PasswordHash).NotTo(Equal("secret1"))
		})

		It("rejects short passwords before touching the repository", func() {
			err := svc.SignUp(context.Background(), auth.SignUpDTO{
				Identifier: "hong",
				Password:   "short",
				Name:       "홍길동",
			})
			Expect(err).To(BeAssignableToTypeOf(auth.ValidationError{}))
			Expect(repo.created).To(BeEmpty())
		})

		It("leaves no account behind when the insert fails", func() {
			repo.createErr = internal.NewRemoteWriteError(nil)
			err := svc.SignUp(context.Background(), auth.SignUpDTO{
				Identifier: "hong",
				Password:   "secret1",
				Name:       "홍길동",
			})
			Expect(err).To(HaveOccurred())
			Expect(repo.byEmail).To(BeEmpty())
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
			Expect(err).NotTo(HaveOccurred())
			p := &principal.Principal{
				ID:           "p-1",
				Email:        "hong@jbf.kr",
				Name:         "홍길동",
				PasswordHash: string(hash),
				AccessLevel:  1,
			}
			repo.byEmail[p.Email] = p
			repo.byID[p.ID] = p
		})

		It("normalizes a bare identifier with the org domain", func() {
			tokens, p, err := svc.Authenticate(context.Background(), auth.LoginDTO{
				Identifier: "hong",
				Password:   "secret1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal("p-1"))
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("accepts a full email unchanged", func() {
			_, p, err := svc.Authenticate(context.Background(), auth.LoginDTO{
				Identifier: "hong@jbf.kr",
				Password:   "secret1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Email).To(Equal("hong@jbf.kr"))
		})

		It("collapses bad passwords into invalid credentials", func() {
			_, _, err := svc.Authenticate(context.Background(), auth.LoginDTO{
				Identifier: "hong",
				Password:   "wrong",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("collapses unknown identifiers into invalid credentials", func() {
			_, _, err := svc.Authenticate(context.Background(), auth.LoginDTO{
				Identifier: "nobody",
				Password:   "secret1",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("publishes a success notification", func() {
			_, _, err := svc.Authenticate(context.Background(), auth.LoginDTO{
				Identifier: "hong",
				Password:   "secret1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(notifier.notices).NotTo(BeEmpty())
			Expect(notifier.notices[0].Severity).To(Equal(notification.SeveritySuccess))
		})
	})

	Describe("CurrentPrincipal", func() {
		It("round-trips a generated access token", func() {
			p := &principal.Principal{ID: "p-9", Email: "kim@jbf.kr"}
			repo.byID[p.ID] = p

			tokens := auth.NewJWTTokenGenerator(
				"access-secret-access-secret-access-secret",
				"refresh-secret-refresh-secret-refresh",
				15*time.Minute, time.Hour,
			)
			token, err := tokens.GenerateAccessToken("p-9", "kim@jbf.kr")
			Expect(err).NotTo(HaveOccurred())

			got, err := svc.CurrentPrincipal(context.Background(), token)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal("p-9"))
		})

		It("rejects garbage tokens", func() {
			_, err := svc.CurrentPrincipal(context.Background(), "not-a-token")
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})

	Describe("UpdatePassword", func() {
		It("rehashes the credential and clears first_login", func() {
			p := &principal.Principal{ID: "p-1", Email: "hong@jbf.kr", FirstLogin: true}
			repo.byID[p.ID] = p

			err := svc.UpdatePassword(context.Background(), "p-1", auth.ChangePasswordDTO{NewPassword: "newpass1"})
			Expect(err).NotTo(HaveOccurred())

			Expect(p.FirstLogin).To(BeFalse())
			Expect(bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("newpass1"))).To(Succeed())
		})
	})

	Describe("NormalizeIdentifier", func() {
		It("appends the domain only when missing", func() {
			Expect(auth.NormalizeIdentifier("user", "jbf.kr")).To(Equal("user@jbf.kr"))
			Expect(auth.NormalizeIdentifier("user@other.org", "jbf.kr")).To(Equal("user@other.org"))
			Expect(auth.NormalizeIdentifier("  user ", "jbf.kr")).To(Equal("user@jbf.kr"))
		})
	})
})
