package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	statusCode  int
	contentType string
	body        string
}

func newSiteServer(pages map[string]page) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if p.contentType != "" {
			w.Header().Set("Content-Type", p.contentType)
		}
		w.WriteHeader(p.statusCode)
		w.Write([]byte(p.body))
	}))
}

func Test_FindTermsUrl(t *testing.T) {
	testSet := []struct {
		name         string
		pages        map[string]page
		expectedPath string
		expectedOk   bool
	}{
		{
			name: "first declared path wins",
			pages: map[string]page{
				"/privacy-policy": {http.StatusOK, "text/html", "<p>privacy</p>"},
				"/terms":          {http.StatusOK, "text/html; charset=utf-8", "<p>terms</p>"},
				"/legal":          {http.StatusOK, "text/html", "<p>legal</p>"},
			},
			expectedPath: "/terms",
			expectedOk:   true,
		},
		{
			name: "non html candidate is skipped",
			pages: map[string]page{
				"/terms":                {http.StatusOK, "application/pdf", "%PDF"},
				"/terms-and-conditions": {http.StatusOK, "text/html", "<p>tac</p>"},
			},
			expectedPath: "/terms-and-conditions",
			expectedOk:   true,
		},
		{
			name: "non 200 candidate is skipped",
			pages: map[string]page{
				"/terms-of-service": {http.StatusForbidden, "text/html", "denied"},
				"/policy":           {http.StatusOK, "text/html", "<p>policy</p>"},
			},
			expectedPath: "/policy",
			expectedOk:   true,
		},
		{
			name: "falls back to first policy-like homepage link",
			pages: map[string]page{
				"/": {http.StatusOK, "text/html", `<html><body>
					<a href="/about">About</a>
					<a href="/help/Privacy-Notice">Privacy</a>
					<a href="/site-terms">Terms</a>
				</body></html>`},
			},
			expectedPath: "/help/Privacy-Notice",
			expectedOk:   true,
		},
		{
			name: "homepage without policy links",
			pages: map[string]page{
				"/": {http.StatusOK, "text/html", `<a href="/about">About</a><a href="/blog">Blog</a>`},
			},
			expectedOk: false,
		},
	}
	for _, test := range testSet {
		t.Run(test.name, func(tt *testing.T) {
			server := newSiteServer(test.pages)
			defer server.Close()

			termsUrl, ok := newTestProber(nil).FindTermsUrl(context.Background(), server.URL)

			assert.Equal(tt, test.expectedOk, ok)
			if test.expectedOk {
				assert.Equal(tt, server.URL+test.expectedPath, termsUrl)
			} else {
				assert.Empty(tt, termsUrl)
			}
		})
	}
}

func Test_FindTermsUrl_AbsoluteLink(t *testing.T) {
	server := newSiteServer(map[string]page{
		"/": {http.StatusOK, "text/html", `<a href="https://legal.example.org/conditions">Conditions</a>`},
	})
	defer server.Close()

	termsUrl, ok := newTestProber(nil).FindTermsUrl(context.Background(), server.URL)

	assert.True(t, ok)
	assert.Equal(t, "https://legal.example.org/conditions", termsUrl)
}

func Test_FindTermsUrl_Unreachable(t *testing.T) {
	server := newSiteServer(nil)
	domain := server.URL
	server.Close()

	termsUrl, ok := newTestProber(nil).FindTermsUrl(context.Background(), domain)

	assert.False(t, ok)
	assert.Empty(t, termsUrl)
}

func Test_GetTermsText(t *testing.T) {
	server := newSiteServer(map[string]page{
		"/terms": {http.StatusOK, "text/html", `<html><head><title>Terms</title>
			<style>body { color: red; }</style><script>var tracking = true;</script></head>
			<body><h1>Terms of Service</h1><!-- hidden note -->
			<p>You may not <b>scrape</b> this site.</p>
			<noscript>enable js</noscript></body></html>`},
	})
	defer server.Close()

	text := newTestProber(nil).GetTermsText(context.Background(), server.URL+"/terms")

	assert.Equal(t, "Terms\nTerms of Service\nYou may not\nscrape\nthis site.", text)
}

func Test_GetTermsText_Unreachable(t *testing.T) {
	server := newSiteServer(nil)
	termsUrl := server.URL + "/terms"
	server.Close()

	assert.Equal(t, "", newTestProber(nil).GetTermsText(context.Background(), termsUrl))
}

func Test_extractText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("plain <i>text</i>\n\n  <template>x</template>"))
	require.NoError(t, err)

	assert.Equal(t, "plain\ntext", extractText(doc))
}
