package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/internalerr"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/model"
)

// Directory fetches a world-directory JSON document over HTTP and turns
// it into themes grouping countries by currency and by official
// language, facts the canonical dictionary does not carry. The fetch is
// bounded by a hard timeout and never retried: a broken upstream should
// stop the run loudly rather than hand us partial data.
type Directory struct {
	name    string
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewDirectory creates a directory adapter for the given endpoint.
func NewDirectory(name, endpoint string, timeout time.Duration) *Directory {
	return &Directory{
		name:    name,
		url:     endpoint,
		timeout: timeout,
		client:  &http.Client{},
	}
}

func (d *Directory) Name() string           { return d.name }
func (d *Directory) Capability() Capability { return CapThemes }

// dirCountry mirrors the subset of the directory payload we consume.
type dirCountry struct {
	CCA2 string `json:"cca2"`
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Translations map[string]struct {
		Common string `json:"common"`
	} `json:"translations"`
	Currencies map[string]struct {
		Name string `json:"name"`
	} `json:"currencies"`
	Languages map[string]string `json:"languages"`
	UNMember  *bool             `json:"unMember"`
}

// FetchThemes downloads the directory and groups it into currency and
// language themes. Only verified members are included so generated
// quizzes stay authoritative; a country with an unknown membership flag
// is excluded, not assumed included.
func (d *Directory) FetchThemes(ctx context.Context) ([]model.Theme, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	countries, err := d.download(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: directory %s: %v", internalerr.ErrFetch, d.name, err)
	}

	byCurrency := make(map[string][]string)
	byLanguage := make(map[string][]string)
	for _, c := range countries {
		if c.UNMember == nil || !*c.UNMember {
			continue
		}
		label := c.Name.Common
		if ja, ok := c.Translations["jpn"]; ok && ja.Common != "" {
			label = ja.Common
		}
		if label == "" {
			continue
		}
		for code := range c.Currencies {
			byCurrency[strings.ToLower(code)] = append(byCurrency[strings.ToLower(code)], label)
		}
		for code := range c.Languages {
			byLanguage[strings.ToLower(code)] = append(byLanguage[strings.ToLower(code)], label)
		}
	}

	var themes []model.Theme
	for _, code := range sortedKeys(byCurrency) {
		themes = append(themes, model.Theme{
			ID:            "currency_" + code,
			Title:         currencyTitle(code),
			CategoryID:    "currency",
			CategoryTitle: "通貨",
			Answers:       byCurrency[code],
		})
	}
	for _, code := range sortedKeys(byLanguage) {
		themes = append(themes, model.Theme{
			ID:            "language_" + code,
			Title:         languageTitle(code),
			CategoryID:    "language",
			CategoryTitle: "言語",
			Answers:       byLanguage[code],
		})
	}
	return themes, nil
}

// download fetches the endpoint. Mirrors expose either the JSON
// document itself or an HTML index page listing dataset files; in the
// latter case the first *.json link is resolved and fetched.
func (d *Directory) download(ctx context.Context) ([]dirCountry, error) {
	body, contentType, err := d.get(ctx, d.url)
	if err != nil {
		return nil, err
	}

	if strings.Contains(contentType, "text/html") {
		asset, err := findJSONAsset(d.url, body)
		if err != nil {
			return nil, err
		}
		body, _, err = d.get(ctx, asset)
		if err != nil {
			return nil, err
		}
	}

	var countries []dirCountry
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return countries, nil
}

func (d *Directory) get(ctx context.Context, u string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "odaigen")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// findJSONAsset walks an HTML index page and returns the first anchor
// pointing at a .json file, resolved against the page URL.
func findJSONAsset(pageURL string, body []byte) (string, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse index page: %w", err)
	}

	var href string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if href != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && strings.HasSuffix(attr.Val, ".json") {
					href = attr.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if href == "" {
		return "", fmt.Errorf("no json asset linked from index page")
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// currencyLabels maps known currency codes to their Japanese names.
// Anything absent renders with its upper-cased code, never guessed.
var currencyLabels = map[string]string{
	"jpy": "円",
	"usd": "米ドル",
	"eur": "ユーロ",
	"gbp": "ポンド",
	"chf": "スイスフラン",
	"aud": "豪ドル",
	"nzd": "ニュージーランドドル",
	"cny": "人民元",
	"krw": "ウォン",
	"inr": "ルピー",
	"xof": "西アフリカCFAフラン",
	"xaf": "中央アフリカCFAフラン",
	"xcd": "東カリブドル",
}

// languageLabels maps known language codes to their Japanese names.
var languageLabels = map[string]string{
	"jpn": "日本語",
	"eng": "英語",
	"fra": "フランス語",
	"spa": "スペイン語",
	"por": "ポルトガル語",
	"ara": "アラビア語",
	"deu": "ドイツ語",
	"rus": "ロシア語",
	"zho": "中国語",
	"msa": "マレー語",
	"swa": "スワヒリ語",
}

func currencyTitle(code string) string {
	if label, ok := currencyLabels[code]; ok {
		return label + "が使われている国"
	}
	return strings.ToUpper(code) + "が使われている国"
}

func languageTitle(code string) string {
	if label, ok := languageLabels[code]; ok {
		return label + "が話されている国"
	}
	return strings.ToUpper(code) + "が話されている国"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
