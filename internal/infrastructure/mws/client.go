package mws

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Marketsync-api/pkg/config"
	"github.com/jhoicas/Marketsync-api/pkg/logger"
)

// Client es el cliente HTTP de bajo nivel contra la API del marketplace.
// Firma cada petición con HMAC-SHA256 sobre la query canónica, al estilo de
// las APIs de firma por query string.
type Client struct {
	httpClient *http.Client
	endpoint   string
	sellerID   string
	accessKey  string
	secretKey  string
	log        *logger.Logger
}

// NewClient construye el cliente con un timeout de red generoso (60 s): los
// endpoints de feeds pueden tardar varios segundos en responder.
func NewClient(cfg config.MwsConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   cfg.Endpoint,
		sellerID:   cfg.SellerID,
		accessKey:  cfg.AccessKey,
		secretKey:  cfg.SecretKey,
		log:        log,
	}
}

// call ejecuta una acción de la API con los parámetros dados y devuelve el
// cuerpo XML de la respuesta. body es opcional (solo feeds).
func (c *Client) call(ctx context.Context, action string, params map[string]string, body []byte) ([]byte, error) {
	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("mws: endpoint inválido: %w", err)
	}

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	values.Set("Action", action)
	values.Set("SellerId", c.sellerID)
	values.Set("AWSAccessKeyId", c.accessKey)
	values.Set("SignatureMethod", "HmacSHA256")
	values.Set("SignatureVersion", "2")
	values.Set("Timestamp", time.Now().UTC().Format(time.RFC3339))
	values.Set("Signature", c.sign(endpoint, values))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpoint.String()+"?"+values.Encode(), strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("mws: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("mws: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("mws: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20)) // max 4 MB
	if err != nil {
		return nil, fmt.Errorf("mws: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Str("action", action).Int("status", resp.StatusCode).
			Msg("respuesta no-200 del marketplace")
		return nil, fmt.Errorf("mws: %s respondió %d: %s", action, resp.StatusCode, truncate(raw, 512))
	}
	return raw, nil
}

// sign calcula la firma HMAC-SHA256 de la query canónica (claves ordenadas,
// percent-encoding estricto) según el esquema Signature Version 2.
func (c *Client) sign(endpoint *url.URL, values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var canonical strings.Builder
	for i, k := range keys {
		if i > 0 {
			canonical.WriteByte('&')
		}
		canonical.WriteString(url.QueryEscape(k))
		canonical.WriteByte('=')
		canonical.WriteString(strings.ReplaceAll(url.QueryEscape(values.Get(k)), "+", "%20"))
	}

	path := endpoint.Path
	if path == "" {
		path = "/"
	}
	toSign := strings.Join([]string{
		http.MethodPost, endpoint.Host, path, canonical.String(),
	}, "\n")

	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(toSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
