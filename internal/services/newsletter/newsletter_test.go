// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package newsletter_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/ateliercraft/atelier/internal/config"
	"github.com/ateliercraft/atelier/internal/repository"
	"github.com/ateliercraft/atelier/internal/services/newsletter"
	"github.com/ateliercraft/atelier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	To         string
	ConfirmURL string
	SourcePath string
}

// fakeSender records confirmation sends instead of talking SMTP.
type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) SendConfirmation(_ context.Context, to, confirmURL, sourcePath string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, ConfirmURL: confirmURL, SourcePath: sourcePath})
	return nil
}

func newTestService(t *testing.T) (*newsletter.Service, *repository.Repository, *fakeSender) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	sender := &fakeSender{}
	site := &config.SiteConfig{PublicSiteURL: "https://example.com", Environment: "development"}
	return newsletter.NewService(repo, sender, site), repo, sender
}

func TestSubscribe(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	result := svc.Subscribe(ctx, "jane@example.com", true, "/articles/intro")

	assert.Equal(t, newsletter.SubscribePending, result.Outcome)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jane@example.com", sender.sent[0].To)
	assert.Equal(t, "/articles/intro", sender.sent[0].SourcePath)

	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, stored.IsConfirmed())
	assert.True(t, stored.Consent)
	assert.NotEmpty(t, stored.ConfirmationToken)
	assert.NotNil(t, stored.TokenSentAt)
}

func TestSubscribe_ConfirmURL(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	result := svc.Subscribe(ctx, "jane@example.com", true, "/")
	require.Equal(t, newsletter.SubscribePending, result.Outcome)

	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)

	link, err := url.Parse(sender.sent[0].ConfirmURL)
	require.NoError(t, err)
	assert.Equal(t, "https", link.Scheme)
	assert.Equal(t, "example.com", link.Host)
	assert.Equal(t, "/newsletter/confirm", link.Path)
	assert.Equal(t, stored.ConfirmationToken, link.Query().Get("token"))
	assert.Equal(t, "jane@example.com", link.Query().Get("email"))
}

func TestSubscribe_PreservesOriginalCaseInLink(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	result := svc.Subscribe(ctx, "Jane@Example.com", true, "/")
	require.Equal(t, newsletter.SubscribePending, result.Outcome)

	// Identity is the lower-cased address.
	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", stored.Email)

	// The mail and its link keep what the user typed.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Jane@Example.com", sender.sent[0].To)
	link, err := url.Parse(sender.sent[0].ConfirmURL)
	require.NoError(t, err)
	assert.Equal(t, "Jane@Example.com", link.Query().Get("email"))
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	for _, email := range []string{"", "plainaddress", "missing@tld", "two words@example.com"} {
		result := svc.Subscribe(ctx, email, true, "/")

		assert.Equal(t, newsletter.SubscribeInvalid, result.Outcome, email)
		assert.Equal(t, newsletter.FieldErrInvalidEmail, result.FieldErrors["email"], email)
	}

	// Nothing was stored and nothing was sent.
	count, err := repo.CountSignups(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, sender.sent)
}

func TestSubscribe_ConsentRequired(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	result := svc.Subscribe(ctx, "jane@example.com", false, "/")

	assert.Equal(t, newsletter.SubscribeInvalid, result.Outcome)
	assert.Equal(t, newsletter.FieldErrConsentRequired, result.FieldErrors["consent"])

	count, err := repo.CountSignups(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, sender.sent)
}

func TestSubscribe_AggregatesFieldErrors(t *testing.T) {
	svc, _, _ := newTestService(t)

	result := svc.Subscribe(context.Background(), "not-an-email", false, "/")

	assert.Equal(t, newsletter.SubscribeInvalid, result.Outcome)
	assert.Len(t, result.FieldErrors, 2)
}

func TestSubscribe_PendingResubscribeReplacesToken(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	require.Equal(t, newsletter.SubscribePending, svc.Subscribe(ctx, "jane@example.com", true, "/").Outcome)
	first, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)

	require.Equal(t, newsletter.SubscribePending, svc.Subscribe(ctx, "jane@example.com", true, "/").Outcome)
	second, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)

	assert.Len(t, sender.sent, 2)
	assert.NotEqual(t, first.ConfirmationToken, second.ConfirmationToken)

	// The link from the first mail is dead now.
	result := svc.Confirm(ctx, first.ConfirmationToken)
	assert.Equal(t, newsletter.ConfirmInvalid, result.Status)

	// The fresh one completes the opt-in.
	result = svc.Confirm(ctx, second.ConfirmationToken)
	assert.Equal(t, newsletter.ConfirmConfirmed, result.Status)
}

func TestSubscribe_AlreadyConfirmed(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	require.Equal(t, newsletter.SubscribePending, svc.Subscribe(ctx, "jane@example.com", true, "/").Outcome)
	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, newsletter.ConfirmConfirmed, svc.Confirm(ctx, stored.ConfirmationToken).Status)

	result := svc.Subscribe(ctx, "jane@example.com", true, "/")

	assert.Equal(t, newsletter.SubscribeAlreadyConfirmed, result.Outcome)
	// No second mail and no state change.
	assert.Len(t, sender.sent, 1)
	after, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, after.IsConfirmed())
	assert.Equal(t, stored.ConfirmationToken, after.ConfirmationToken)
}

func TestSubscribe_SendErrorKeepsPendingRow(t *testing.T) {
	svc, repo, sender := newTestService(t)
	sender.err = errors.New("smtp unreachable")
	ctx := context.Background()

	result := svc.Subscribe(ctx, "jane@example.com", true, "/")

	assert.Equal(t, newsletter.SubscribeSendError, result.Outcome)

	// The pending row persists so a retry just re-issues a token.
	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, stored.IsConfirmed())
	assert.Nil(t, stored.TokenSentAt)
}

func TestSubscribe_NoBaseURLInProduction(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	sender := &fakeSender{}
	site := &config.SiteConfig{Environment: "production"}
	svc := newsletter.NewService(repo, sender, site)

	result := svc.Subscribe(context.Background(), "jane@example.com", true, "/")

	assert.Equal(t, newsletter.SubscribeConfigError, result.Outcome)
	assert.Empty(t, sender.sent)
}

func TestSubscribe_TruncatesLongSourcePath(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	long := "/" + strings.Repeat("a", 400)
	result := svc.Subscribe(ctx, "jane@example.com", true, long)
	require.Equal(t, newsletter.SubscribePending, result.Outcome)

	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Len(t, stored.SourcePath, 255)
}

func TestConfirm_MissingToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	result := svc.Confirm(context.Background(), "")

	assert.Equal(t, newsletter.ConfirmMissingToken, result.Status)
}

func TestConfirm_UnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	result := svc.Confirm(context.Background(), "nope")

	assert.Equal(t, newsletter.ConfirmInvalid, result.Status)
}

func TestConfirm_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.Equal(t, newsletter.SubscribePending, svc.Subscribe(ctx, "jane@example.com", true, "/").Outcome)
	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)

	first := svc.Confirm(ctx, stored.ConfirmationToken)
	require.Equal(t, newsletter.ConfirmConfirmed, first.Status)
	assert.Equal(t, "jane@example.com", first.Email)

	second := svc.Confirm(ctx, stored.ConfirmationToken)
	assert.Equal(t, newsletter.ConfirmAlreadyConfirmed, second.Status)
	assert.Equal(t, "jane@example.com", second.Email)
}

func TestNewToken(t *testing.T) {
	token, err := newsletter.NewToken()

	require.NoError(t, err)
	assert.Len(t, token, newsletter.TokenLength*2)

	other, err := newsletter.NewToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
