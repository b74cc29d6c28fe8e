package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/internalerr"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/model"
)

const directoryJSON = `[
  {"cca2":"JP","name":{"common":"Japan"},
   "translations":{"jpn":{"common":"日本"}},
   "currencies":{"JPY":{"name":"Japanese yen"}},
   "languages":{"jpn":"Japanese"},
   "unMember":true},
  {"cca2":"FR","name":{"common":"France"},
   "translations":{"jpn":{"common":"フランス"}},
   "currencies":{"EUR":{"name":"Euro"}},
   "languages":{"fra":"French"},
   "unMember":true},
  {"cca2":"DE","name":{"common":"Germany"},
   "translations":{"jpn":{"common":"ドイツ"}},
   "currencies":{"EUR":{"name":"Euro"}},
   "languages":{"deu":"German"},
   "unMember":true},
  {"cca2":"TW","name":{"common":"Taiwan"},
   "translations":{"jpn":{"common":"台湾"}},
   "currencies":{"TWD":{"name":"New Taiwan dollar"}},
   "languages":{"zho":"Chinese"},
   "unMember":false},
  {"cca2":"XX","name":{"common":"Nowhere"},
   "currencies":{"EUR":{"name":"Euro"}},
   "languages":{"eng":"English"}}
]`

func themeIDs(themes []model.Theme) []string {
	ids := make([]string, len(themes))
	for i, t := range themes {
		ids[i] = t.ID
	}
	return ids
}

func TestDirectoryFetchThemes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(directoryJSON))
	}))
	defer srv.Close()

	d := NewDirectory("world", srv.URL, time.Second)
	require.Equal(t, CapThemes, d.Capability())

	themes, err := d.FetchThemes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"currency_eur", "currency_jpy", "language_deu", "language_fra", "language_jpn"},
		themeIDs(themes))

	eur := themes[0]
	require.Equal(t, "ユーロが使われている国", eur.Title)
	require.Equal(t, "currency", eur.CategoryID)
	require.Equal(t, "通貨", eur.CategoryTitle)
	// Taiwan (not a member) and Nowhere (unknown membership) are out.
	require.ElementsMatch(t, []string{"フランス", "ドイツ"}, eur.Answers)

	jpy := themes[1]
	require.Equal(t, []string{"日本"}, jpy.Answers)
}

func TestDirectoryFollowsHTMLIndex(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>
			<a href="readme.txt">readme</a>
			<a href="data/countries.json">countries</a>
		</body></html>`))
	})
	mux.HandleFunc("/data/countries.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(directoryJSON))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	d := NewDirectory("world", srv.URL+"/", time.Second)
	themes, err := d.FetchThemes(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, themes)
}

func TestDirectoryTimeoutAborts(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	d := NewDirectory("world", srv.URL, 50*time.Millisecond)
	start := time.Now()
	_, err := d.FetchThemes(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, internalerr.ErrFetch))
	require.Less(t, time.Since(start), time.Second, "the fetch must abort at the deadline, not block")
}

func TestDirectoryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDirectory("world", srv.URL, time.Second)
	_, err := d.FetchThemes(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, internalerr.ErrFetch))
}

func TestDirectoryMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	d := NewDirectory("world", srv.URL, time.Second)
	_, err := d.FetchThemes(context.Background())
	require.Error(t, err)
}
