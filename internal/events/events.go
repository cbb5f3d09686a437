// Package events publishes generation lifecycle events to EventBridge.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	eventbridgetypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/rs/zerolog/log"
)

// Source is the EventBridge source for every studio event.
const Source = "ai-creative-studio"

// Detail types.
const (
	DetailCompleted = "GenerationCompleted"
	DetailFailed    = "GenerationFailed"
)

// PutEventsAPI is the subset of the EventBridge client used here.
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Generation is the detail payload of a generation event.
type Generation struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Status     string    `json:"status"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	Error      string    `json:"error,omitempty"`
	MIMEType   string    `json:"mimeType,omitempty"`
	ObjectKey  string    `json:"objectKey,omitempty"`
	DurationMs int64     `json:"durationMs"`
	Polls      int       `json:"polls,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// DetailType picks the detail type from the event status.
func (g Generation) DetailType() string {
	if g.Error != "" {
		return DetailFailed
	}
	return DetailCompleted
}

// EmitGeneration sends one generation event to bus. An empty bus name uses
// the account's default bus.
func EmitGeneration(ctx context.Context, client PutEventsAPI, bus string, event Generation) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal Generation: %w", err)
	}

	entry := eventbridgetypes.PutEventsRequestEntry{
		Source:     aws.String(Source),
		DetailType: aws.String(event.DetailType()),
		Detail:     aws.String(string(detail)),
	}
	if bus != "" {
		entry.EventBusName = aws.String(bus)
	}

	result, err := client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []eventbridgetypes.PutEventsRequestEntry{entry},
	})
	if err != nil {
		log.Error().Err(err).Str("id", event.ID).Str("mode", event.Mode).Msg("EventBridge PutEvents failed")
		return fmt.Errorf("PutEvents: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, e := range result.Entries {
			if e.ErrorCode != nil || e.ErrorMessage != nil {
				log.Error().
					Int("index", i).
					Str("errorCode", aws.ToString(e.ErrorCode)).
					Str("errorMessage", aws.ToString(e.ErrorMessage)).
					Str("id", event.ID).
					Msg("EventBridge PutEvents entry failed")
				return fmt.Errorf("PutEvents entry %d failed: %s - %s", i, aws.ToString(e.ErrorCode), aws.ToString(e.ErrorMessage))
			}
		}
	}

	log.Debug().Str("id", event.ID).Str("detailType", event.DetailType()).Msg("Generation event emitted to EventBridge")
	return nil
}
