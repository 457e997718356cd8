package export

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type elasticStore struct {
	client    *elasticsearch.Client
	transport *http.Transport
}

// NewElasticStore creates an Elasticsearch client for cfg. It does not
// contact the server; call Ping for that.
func NewElasticStore(cfg Config) (Store, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	caCert, err := cfg.caCert()
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in
	}
	if caCert != nil {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errFactory.WithMessage(ErrInvalidConfig, "no certificates found in "+cfg.CACert)
		}
		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
		Transport: transport,
	})
	if err != nil {
		return nil, errFactory.Wrap(ErrConnect, err)
	}

	logger.Debug().
		Strs("addresses", cfg.Addresses).
		Bool("ca_cert", caCert != nil).
		Msg("Elasticsearch client created")

	return &elasticStore{client: client, transport: transport}, nil
}

func (s *elasticStore) Ping(ctx context.Context) error {
	res, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err := checkResponse(res, err); err != nil {
		return errors.New().Wrap(ErrProbe, err)
	}

	return nil
}

func (s *elasticStore) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := s.client.Indices.Exists([]string{name}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, errors.New().Wrap(ErrIndexExists, err)
	}
	defer drain(res)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, errors.New().WithData(ErrIndexExists, res.Status())
	}
}

func (s *elasticStore) CreateIndex(ctx context.Context, name string, body []byte) error {
	opts := []func(*esapi.IndicesCreateRequest){
		s.client.Indices.Create.WithContext(ctx),
	}
	if body != nil {
		opts = append(opts, s.client.Indices.Create.WithBody(bytes.NewReader(body)))
	}

	res, err := s.client.Indices.Create(name, opts...)
	if err := checkResponse(res, err); err != nil {
		return errors.New().Wrap(ErrCreateIndex, err).WithMessage("creating index " + name)
	}

	return nil
}

func (s *elasticStore) Index(ctx context.Context, name, id string, doc []byte) error {
	opts := []func(*esapi.IndexRequest){
		s.client.Index.WithContext(ctx),
	}
	if id != "" {
		opts = append(opts, s.client.Index.WithDocumentID(id))
	}

	res, err := s.client.Index(name, bytes.NewReader(doc), opts...)
	if err := checkResponse(res, err); err != nil {
		return errors.New().Wrap(ErrIndexDoc, err).WithMessage("indexing into " + name)
	}

	return nil
}

func (s *elasticStore) Close() error {
	s.transport.CloseIdleConnections()
	return nil
}

func checkResponse(res *esapi.Response, err error) error {
	if err != nil {
		return err
	}
	defer drain(res)

	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("%s: %s", res.Status(), bytes.TrimSpace(body))
	}

	return nil
}

func drain(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()
}
