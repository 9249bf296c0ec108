package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/order"
	"github.com/example/nova-commerce/internal/logger"
)

const DefaultTimeout = 3 * time.Second

// Composer wraps a Generator so callers always get usable content.
type Composer struct {
	generator Generator
	timeout   time.Duration
	log       *logrus.Entry
}

func NewComposer(gen Generator, timeout time.Duration) *Composer {
	if gen == nil {
		gen = TemplateGenerator{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Composer{generator: gen, timeout: timeout, log: logger.For("notification")}
}

type generateResult struct {
	content Content
	err     error
}

// Compose generates content for the order. Errors, panics and timeouts in
// the generator all yield Fallback(o).
func (c *Composer) Compose(ctx context.Context, o order.Order, kind Kind, email string) Content {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan generateResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- generateResult{err: fmt.Errorf("generator panic: %v", r)}
			}
		}()
		content, err := c.generator.Generate(ctx, Request{Order: o.Clone(), Kind: kind, Email: email})
		done <- generateResult{content: content, err: err}
	}()

	var res generateResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	if res.err != nil {
		c.log.WithFields(logrus.Fields{
			"order_id": o.ID,
			"kind":     kind,
		}).WithError(res.err).Warn("Notification generation failed, using fallback")
		return Fallback(o)
	}
	if res.content.Subject == "" || res.content.Body == "" {
		fb := Fallback(o)
		if res.content.Subject == "" {
			res.content.Subject = fb.Subject
		}
		if res.content.Body == "" {
			res.content.Body = fb.Body
		}
	}
	return res.content
}
