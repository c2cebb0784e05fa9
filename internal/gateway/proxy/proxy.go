package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Proxy Handler
// ============================================================

// Proxy пересылает запросы к warehouse-сервису.
type Proxy struct {
	upstream string
	client   *http.Client
	logger   *zap.Logger
}

func New(upstream string, timeout time.Duration, logger *zap.Logger) *Proxy {
	return &Proxy{
		upstream: strings.TrimSuffix(upstream, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("proxy"),
	}
}

// To проксирует запрос на фиксированный путь upstream.
func (p *Proxy) To(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return p.forward(c, p.upstream+path)
	}
}

// Wildcard проксирует prefix + остаток пути из параметра "*".
func (p *Proxy) Wildcard(prefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return p.forward(c, p.upstream+prefix+"/"+c.Params("*"))
	}
}

// forward пересылает метод, тело, query и Content-Type, затем копирует ответ.
func (p *Proxy) forward(c fiber.Ctx, targetURL string) error {
	if query := string(c.Request().URI().QueryString()); query != "" {
		targetURL += "?" + query
	}

	p.logger.Debug("forwarding",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("content_length", len(c.Body())),
		zap.String("target", targetURL))

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		p.logger.Error("build request", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	if contentType := c.Get("Content-Type"); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept := c.Get("Accept"); accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("upstream unreachable", zap.String("target", targetURL), zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return p.copyResponse(c, resp)
}

func (p *Proxy) copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Warn("read upstream response", zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		// длину и кодировку выставит fiber для нового тела
		if key == "Content-Length" || key == "Content-Encoding" {
			continue
		}
		if len(values) > 0 {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}

// Ping проверяет, что upstream отвечает на liveness.
func (p *Proxy) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.upstream+"/health/live", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream liveness: %s", resp.Status)
	}
	return nil
}
