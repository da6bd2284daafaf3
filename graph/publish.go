// Package graph announces saved designs to the knowledge graph over NATS.
package graph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is the subject root for design events.
const SubjectPrefix = "dhc.design.saved"

// Publisher is the part of *nats.Conn used for publication.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type flusher interface {
	FlushWithContext(ctx context.Context) error
}

// DesignSubject returns the subject a design's saves are published on.
func DesignSubject(prefix, rootID string) string {
	if prefix == "" {
		prefix = SubjectPrefix
	}
	return fmt.Sprintf("%s.%s", prefix, rootID)
}

// PublishDesign publishes msg on the design's subject under SubjectPrefix.
func PublishDesign(ctx context.Context, p Publisher, msg *DesignSavedMessage) error {
	return PublishDesignTo(ctx, p, SubjectPrefix, msg)
}

// PublishDesignTo publishes msg on prefix.<root id> and waits for the server
// to acknowledge the flush when p is a NATS connection.
func PublishDesignTo(ctx context.Context, p Publisher, prefix string, msg *DesignSavedMessage) error {
	if isNil(p) {
		return nil // Skip publishing if no NATS client (graceful degradation)
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid design message: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal design message: %w", err)
	}

	subject := DesignSubject(prefix, msg.RootID)
	if err := p.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	if f, ok := p.(flusher); ok {
		if err := f.FlushWithContext(ctx); err != nil {
			return fmt.Errorf("flush %s: %w", subject, err)
		}
	}
	return nil
}

func isNil(p Publisher) bool {
	if p == nil {
		return true
	}
	nc, ok := p.(*nats.Conn)
	return ok && nc == nil
}
