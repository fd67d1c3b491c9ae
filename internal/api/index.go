package api

import (
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/charliek/logview/internal/domain"
	"github.com/charliek/logview/internal/web"
)

const (
	placeholderConfigs     = "%(Configs)"
	placeholderHeadContent = "%(HeadContent)"
	placeholderBodyContent = "%(BodyContent)"
)

// indexConfig is the options blob the UI decodes on startup.
type indexConfig struct {
	RoutePrefix string `json:"routePrefix"`
	AuthType    string `json:"authType"`
	HomeURL     string `json:"homeUrl"`
}

// indexRenderer fills the index template. The template is read from
// assets on every call.
type indexRenderer struct {
	assets fs.FS
	opts   Options
}

// Render returns the index page with all placeholders substituted.
func (ir *indexRenderer) Render() ([]byte, error) {
	tmpl, err := fs.ReadFile(ir.assets, web.IndexFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTemplateLoad, err)
	}

	configs, err := encodeIndexConfig(indexConfig{
		RoutePrefix: ir.opts.RoutePrefix,
		AuthType:    ir.opts.AuthType,
		HomeURL:     ir.opts.HomeURL,
	})
	if err != nil {
		return nil, err
	}

	replacer := strings.NewReplacer(
		placeholderConfigs, configs,
		placeholderHeadContent, ir.opts.HeadContent,
		placeholderBodyContent, ir.opts.BodyContent,
	)
	return []byte(replacer.Replace(string(tmpl))), nil
}

// encodeIndexConfig marshals cfg and escapes it for decodeURIComponent.
func encodeIndexConfig(cfg indexConfig) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding index options: %w", err)
	}
	return strings.ReplaceAll(url.QueryEscape(string(data)), "+", "%20"), nil
}
