package credential

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/sentimenta/moodsync/pkg/util"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return tok
}

func newTestJar(t *testing.T) (*cookiejar.Jar, *url.URL) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	u, _ := url.Parse("http://127.0.0.1:8000/api")
	return jar, u
}

func TestInspectorClassifies(t *testing.T) {
	insp := NewInspector(WithClock(func() time.Time { return fixedNow }))

	cases := []struct {
		name   string
		token  string
		status Status
	}{
		{name: "absent", token: "", status: StatusExpired},
		{name: "garbage", token: "not-a-jwt", status: StatusMalformed},
		{name: "bad payload", token: "aaa.bbb.ccc", status: StatusMalformed},
		{name: "no exp", token: signed(t, jwt.MapClaims{"sub": "42"}), status: StatusExpired},
		{name: "past exp", token: signed(t, jwt.MapClaims{"sub": "42", "exp": fixedNow.Add(-10 * time.Second).Unix()}), status: StatusExpired},
		{name: "future exp", token: signed(t, jwt.MapClaims{"sub": "42", "exp": fixedNow.Add(time.Hour).Unix()}), status: StatusValid},
		{name: "exp equals now", token: signed(t, jwt.MapClaims{"sub": "42", "exp": fixedNow.Unix()}), status: StatusValid},
		{name: "exp not numeric", token: signed(t, jwt.MapClaims{"sub": "42", "exp": "tomorrow"}), status: StatusMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := insp.Inspect(tc.token)
			if v.Status != tc.status {
				t.Fatalf("Inspect=%v want=%v (err=%v)", v.Status, tc.status, v.Err)
			}
			if got, want := insp.IsExpired(tc.token), tc.status != StatusValid; got != want {
				t.Fatalf("IsExpired=%v want=%v", got, want)
			}
		})
	}
}

func TestInspectorIgnoresSignature(t *testing.T) {
	insp := NewInspector(WithClock(func() time.Time { return fixedNow }))
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7", "exp": fixedNow.Add(time.Minute).Unix(),
	}).SignedString([]byte("someone-elses-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	claims, err := insp.Decode(other)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.Subject != "7" {
		t.Fatalf("Subject=%q want=7", claims.Subject)
	}
}

func TestDecodeMalformedCarriesCode(t *testing.T) {
	_, err := NewInspector().Decode("x.y")
	if !apperrors.HasCode(err, apperrors.CodeMalformedCredential) {
		t.Fatalf("expected MALFORMED_CREDENTIAL, got %v", err)
	}
}

func TestJarStoreReadAndDelete(t *testing.T) {
	jar, u := newTestJar(t)
	store := NewJarStore(jar, u, "access_token")
	ctx := context.Background()

	if _, ok := store.Read(ctx); ok {
		t.Fatalf("expected empty store")
	}

	jar.SetCookies(u, []*http.Cookie{
		{Name: "theme", Value: "dark", Path: "/"},
		{Name: "access_token", Value: "abc.def.ghi", Path: "/"},
	})
	tok, ok := store.Read(ctx)
	if !ok || tok != "abc.def.ghi" {
		t.Fatalf("Read=(%q,%v)", tok, ok)
	}

	store.Delete(ctx)
	store.Delete(ctx)
	if _, ok := store.Read(ctx); ok {
		t.Fatalf("expected credential removed")
	}
	if len(jar.Cookies(u)) != 1 {
		t.Fatalf("expected unrelated cookie kept, got %v", jar.Cookies(u))
	}
}

func TestJarStoreUnavailable(t *testing.T) {
	store := NewJarStore(nil, nil, "access_token")
	if store.Available() {
		t.Fatalf("expected unavailable store")
	}
	if _, ok := store.Read(context.Background()); ok {
		t.Fatalf("unavailable store returned a credential")
	}
	store.Delete(context.Background())
}

func TestCookieTTL(t *testing.T) {
	now := fixedNow
	cases := []struct {
		name   string
		cookie http.Cookie
		ttl    time.Duration
		evict  bool
	}{
		{name: "max-age negative", cookie: http.Cookie{Value: "x", MaxAge: -1}, evict: true},
		{name: "max-age", cookie: http.Cookie{Value: "x", MaxAge: 60}, ttl: time.Minute},
		{name: "expires past", cookie: http.Cookie{Value: "x", Expires: now.Add(-time.Second)}, evict: true},
		{name: "expires future", cookie: http.Cookie{Value: "x", Expires: now.Add(time.Hour)}, ttl: time.Hour},
		{name: "session cookie", cookie: http.Cookie{Value: "x"}},
		{name: "empty session cookie", cookie: http.Cookie{}, evict: true},
	}
	for _, tc := range cases {
		ttl, evict := cookieTTL(&tc.cookie, now)
		if ttl != tc.ttl || evict != tc.evict {
			t.Fatalf("%s: cookieTTL=(%v,%v) want=(%v,%v)", tc.name, ttl, evict, tc.ttl, tc.evict)
		}
	}
}
