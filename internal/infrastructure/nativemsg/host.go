package nativemsg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/tabsaver/internal/app/messaging"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/logging"
)

// maxConcurrentActions caps in-flight action handlers. Actions must run off
// the read loop because they issue method calls whose replies arrive on the
// same stream; handling them inline would deadlock.
const maxConcurrentActions = 8

// ActionHandler processes one popup action.
type ActionHandler interface {
	Handle(ctx context.Context, msg messaging.Message) (any, error)
}

// CallResolver completes pending browser method calls when their reply
// frame arrives.
type CallResolver interface {
	Resolve(id int64, result json.RawMessage, callErr string) bool
}

// LoadNotifier receives tab load-completion events.
type LoadNotifier interface {
	FireLoaded(id entity.TabID)
}

// Host runs the native messaging session: one read loop that routes each
// inbound frame to the right consumer, and bounded workers for actions.
type Host struct {
	codec    *Codec
	handler  ActionHandler
	resolver CallResolver
	loads    LoadNotifier

	// onStorageReset clears host-side state when the extension reports
	// its storage was wiped. Optional.
	onStorageReset func(ctx context.Context) error
}

// NewHost assembles a session host.
func NewHost(codec *Codec, handler ActionHandler, resolver CallResolver, loads LoadNotifier, onStorageReset func(ctx context.Context) error) *Host {
	return &Host{
		codec:          codec,
		handler:        handler,
		resolver:       resolver,
		loads:          loads,
		onStorageReset: onStorageReset,
	}
}

// inboundFrame probes just enough of a frame to classify it. Exactly one of
// the three shapes applies: an action request, an event notification, or a
// reply to a method call the host issued.
type inboundFrame struct {
	Action string `json:"action"`
	Event  string `json:"event"`
	TabID  int    `json:"tabId"`

	ID     *int64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// Run processes frames until the stream closes or ctx is cancelled. A clean
// browser-side close returns nil.
func (h *Host) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentActions)

	var readErr error
	for {
		if ctx.Err() != nil {
			readErr = ctx.Err()
			break
		}

		raw, err := h.codec.Read()
		if errors.Is(err, io.EOF) {
			log.Info().Msg("messaging channel closed by browser")
			break
		}
		if err != nil {
			readErr = fmt.Errorf("read inbound frame: %w", err)
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Warn().Err(err).Msg("discarding unparseable frame")
			continue
		}

		switch {
		case frame.Action != "":
			h.dispatchAction(ctx, group, raw)
		case frame.Event != "":
			h.dispatchEvent(ctx, frame)
		case frame.ID != nil:
			if !h.resolver.Resolve(*frame.ID, frame.Result, frame.Error) {
				log.Warn().Int64("call_id", *frame.ID).Msg("reply for unknown or expired call")
			}
		default:
			log.Warn().Msg("discarding frame with no action, event, or call id")
		}
	}

	if err := group.Wait(); err != nil && readErr == nil {
		readErr = err
	}
	if errors.Is(readErr, context.Canceled) {
		return nil
	}
	return readErr
}

func (h *Host) dispatchAction(ctx context.Context, group *errgroup.Group, raw json.RawMessage) {
	log := logging.FromContext(ctx)

	var msg messaging.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Warn().Err(err).Msg("discarding malformed action request")
		return
	}

	group.Go(func() error {
		resp, err := h.handler.Handle(ctx, msg)
		if err != nil {
			log.Error().Err(err).Str("action", msg.Action).Msg("action failed")
			resp = map[string]any{"success": false, "error": err.Error()}
		}
		if payload, ok := resp.(map[string]any); ok && msg.RequestID != "" {
			payload["requestId"] = msg.RequestID
		}
		if err := h.codec.Write(resp); err != nil {
			// A dead outbound stream ends the session.
			return fmt.Errorf("write action response: %w", err)
		}
		return nil
	})
}

func (h *Host) dispatchEvent(ctx context.Context, frame inboundFrame) {
	log := logging.FromContext(ctx)

	switch frame.Event {
	case "tabLoaded":
		h.loads.FireLoaded(entity.TabID(frame.TabID))
	case "storageReset":
		if h.onStorageReset == nil {
			return
		}
		if err := h.onStorageReset(ctx); err != nil {
			log.Error().Err(err).Msg("failed to clear state after storage reset")
		} else {
			log.Info().Msg("cleared host state after storage reset")
		}
	default:
		log.Debug().Str("event", frame.Event).Msg("ignoring unknown event")
	}
}
