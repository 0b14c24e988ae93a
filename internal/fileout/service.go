package fileout

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/you/chat-fileout/internal/chatmap"
	"github.com/you/chat-fileout/internal/core"
	"github.com/you/chat-fileout/internal/csvenc"
	"github.com/you/chat-fileout/internal/jobtrace"
)

// ObjectStore is the read side of the pipeline: prefix listing across all
// pages and per-object read+decode.
type ObjectStore interface {
	ListAll(ctx context.Context, bucket, prefix string) ([]string, error)
	ReadChatPage(ctx context.Context, bucket, key string) ([]map[string]any, error)
}

// ObjectWriter uploads one finished document, overwriting any previous one.
type ObjectWriter interface {
	PutCSV(ctx context.Context, bucket, key, body string, tags map[string]string) error
}

type Config struct {
	InputBucket  string
	OutputBucket string
}

// Service runs the whole flatten-and-export pipeline for one trigger at a
// time. Invocations for different (channel, video) pairs are independent and
// may run concurrently; the service holds no per-job state.
type Service struct {
	store  ObjectStore
	out    ObjectWriter
	cfg    Config
	logger *slog.Logger
}

func New(store ObjectStore, out ObjectWriter, cfg Config, logger *slog.Logger) *Service {
	return &Service{store: store, out: out, cfg: cfg, logger: logger}
}

// Process lists every chat object under {channel}/{video}, flattens each
// item in listing order, and writes the aggregate CSV to
// {channel}/{video}.csv in the output bucket. Any decode or mapping failure
// aborts the invocation before the output write, so the previous output (if
// any) stays intact. Returns the number of data rows written.
func (s *Service) Process(ctx context.Context, trig core.Trigger) (int, error) {
	trace := jobtrace.New(trig.ChannelID, trig.VideoID)
	prefix := trig.ChannelID + "/" + trig.VideoID

	keys, err := s.store.ListAll(ctx, s.cfg.InputBucket, prefix)
	if err != nil {
		return 0, errors.Wrap(err, "list input objects")
	}
	trace.Add(jobtrace.StageObjectsListed, int64(len(keys)))

	var rows [][]string
	for _, key := range keys {
		items, err := s.store.ReadChatPage(ctx, s.cfg.InputBucket, key)
		if err != nil {
			return 0, err
		}
		trace.Add(jobtrace.StageObjectsRead, 1)

		for _, action := range items {
			item, err := chatmap.FromAction(action)
			if err != nil {
				return 0, errors.Wrapf(err, "object %s", key)
			}
			rows = append(rows, item.Values())
		}
		trace.Add(jobtrace.StageItemsMapped, int64(len(items)))
	}

	doc := csvenc.Encode(core.Fields(), rows)
	trace.Add(jobtrace.StageRowsEncoded, int64(len(rows)))

	outKey := prefix + ".csv"
	tags := map[string]string{
		"channel_id": trig.ChannelID,
		"video_id":   trig.VideoID,
		"creater":    "fileout",
		"project":    "ChatFileOut",
	}
	if err := s.out.PutCSV(ctx, s.cfg.OutputBucket, outKey, doc, tags); err != nil {
		return 0, errors.Wrap(err, "write output object")
	}
	trace.Add(jobtrace.StageOutputWritten, 1)
	trace.LogTrace(s.logger, "chat export complete")

	return len(rows), nil
}
