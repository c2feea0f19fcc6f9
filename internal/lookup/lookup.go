// Package lookup consulta os cadastros públicos usados no preenchimento do
// formulário: CEP (endereço), CNPJ (empresa) e CPF (pessoa).
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/Werneck0live/cadastro-parceiros/internal/metrics"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

var (
	ErrNotFound        = errors.New("lookup: not found")
	ErrInvalidDocument = errors.New("lookup: invalid document")
	ErrUnavailable     = errors.New("lookup: service unavailable")
)

// Kind identifica o cadastro consultado.
type Kind string

const (
	KindCEP  Kind = "cep"
	KindCNPJ Kind = "cnpj"
	KindCPF  Kind = "cpf"
)

func (k Kind) Valid() bool { return k == KindCEP || k == KindCNPJ || k == KindCPF }

type Address struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	IBGE        string `json:"ibge,omitempty"`
}

type Phone struct {
	DDD    string `json:"ddd"`
	Numero string `json:"numero"`
}

func (p Phone) String() string { return p.DDD + p.Numero }

type Activity struct {
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao"`
}

type Member struct {
	Nome         string `json:"nome"`
	Qualificacao string `json:"qualificacao"`
	Documento    string `json:"documento,omitempty"`
}

type CompanyAddress struct {
	Logradouro      string `json:"logradouro"`
	Numero          string `json:"numero"`
	Complemento     string `json:"complemento"`
	Bairro          string `json:"bairro"`
	Municipio       string `json:"municipio"`
	CodigoMunicipio string `json:"codigo_municipio"`
	UF              string `json:"uf"`
	CEP             string `json:"cep"`
}

// Company é o retorno da consulta de CNPJ.
type Company struct {
	CNPJ                  string         `json:"cnpj"`
	RazaoSocial           string         `json:"razao_social"`
	NomeFantasia          string         `json:"nome_fantasia"`
	Situacao              string         `json:"situacao"`
	DataAbertura          string         `json:"data_abertura"`
	NaturezaJuridica      string         `json:"natureza_juridica"`
	Porte                 string         `json:"porte"`
	Endereco              CompanyAddress `json:"endereco"`
	Telefones             []Phone        `json:"telefones"`
	Emails                []string       `json:"emails"`
	AtividadePrincipal    Activity       `json:"atividade_principal"`
	AtividadesSecundarias []Activity     `json:"atividades_secundarias"`
	Socios                []Member       `json:"socios"`
}

// Person é o retorno da consulta de CPF.
type Person struct {
	CPF            string `json:"cpf"`
	Nome           string `json:"nome"`
	Situacao       string `json:"situacao"`
	DataNascimento string `json:"data_nascimento"`
}

type Config struct {
	CEPBaseURL  string
	CNPJBaseURL string
	CPFBaseURL  string
	Timeout     time.Duration
	// requisições por segundo somando os três cadastros; 0 = sem limite
	RatePerSecond float64
	Burst         int
	CacheTTL      time.Duration
}

type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   Cache
	metrics *metrics.Metrics
	log     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithCache(cache Cache) Option         { return func(c *Client) { c.cache = cache } }
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.log = l } }

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     slog.Default(),
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("cmp", "lookup")
	return c
}

// CEP consulta um endereço. {"erro": true} no corpo conta como não encontrado.
func (c *Client) CEP(ctx context.Context, cep string) (Address, error) {
	cep = utils.SanitizeCEP(cep)
	if !utils.ValidateCEP(cep) {
		return Address{}, fmt.Errorf("%w: cep %q", ErrInvalidDocument, cep)
	}
	var out Address
	err := c.fetch(ctx, KindCEP, c.cfg.CEPBaseURL, cep+"/json/", cep, func(body []byte) error {
		if e := gjson.GetBytes(body, "erro"); e.Exists() && (e.Type == gjson.True || e.String() == "true") {
			return ErrNotFound
		}
		return json.Unmarshal(body, &out)
	})
	return out, err
}

func (c *Client) CNPJ(ctx context.Context, cnpj string) (Company, error) {
	cnpj = utils.SanitizeCNPJ(cnpj)
	if !utils.ValidateCNPJ(cnpj) {
		return Company{}, fmt.Errorf("%w: cnpj %q", ErrInvalidDocument, cnpj)
	}
	var out Company
	err := c.fetch(ctx, KindCNPJ, c.cfg.CNPJBaseURL, cnpj, cnpj, func(body []byte) error {
		return json.Unmarshal(body, &out)
	})
	return out, err
}

func (c *Client) CPF(ctx context.Context, cpf string) (Person, error) {
	cpf = utils.SanitizeCPF(cpf)
	if !utils.ValidateCPF(cpf) {
		return Person{}, fmt.Errorf("%w: cpf %q", ErrInvalidDocument, cpf)
	}
	var out Person
	err := c.fetch(ctx, KindCPF, c.cfg.CPFBaseURL, cpf, cpf, func(body []byte) error {
		return json.Unmarshal(body, &out)
	})
	return out, err
}

// fetch resolve key via cache ou HTTP e entrega o corpo a decode. Só corpos
// decodificados com sucesso vão para o cache.
func (c *Client) fetch(ctx context.Context, kind Kind, base, path, key string, decode func([]byte) error) (err error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		switch {
		case errors.Is(err, ErrNotFound):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
		}
		c.metrics.ObserveLookup(string(kind), outcome, time.Since(start))
	}()

	cacheKey := "lookup:" + string(kind) + ":" + key
	if c.cache != nil {
		if body, ok, cerr := c.cache.Get(ctx, cacheKey); cerr == nil && ok {
			if derr := decode(body); derr == nil {
				outcome = "cache"
				return nil
			}
		} else if cerr != nil {
			c.log.Warn("lookup_cache_get_failed", "kind", kind, "err", cerr)
		}
	}

	body, err := c.get(ctx, base, path)
	if err != nil {
		return err
	}
	if err := decode(body); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("lookup %s: decode: %w", kind, err)
	}

	if c.cache != nil {
		if cerr := c.cache.Set(ctx, cacheKey, body, c.cfg.CacheTTL); cerr != nil {
			c.log.Warn("lookup_cache_set_failed", "kind", kind, "err", cerr)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, base, path string) ([]byte, error) {
	if base == "" {
		return nil, fmt.Errorf("%w: base url not configured", ErrUnavailable)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("lookup: rate limit: %w", cerr)
		}
		// a espera passaria do prazo do contexto
		return nil, fmt.Errorf("lookup: rate limit: %w: %v", context.DeadlineExceeded, err)
	}

	u, err := url.JoinPath(strings.TrimRight(base, "/"), path)
	if err != nil {
		return nil, fmt.Errorf("lookup: url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// estouro do Timeout do http.Client também conta como prazo vencido
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("lookup: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return nil, ErrInvalidDocument
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("lookup: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
