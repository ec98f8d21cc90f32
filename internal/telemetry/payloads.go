package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// PayloadsDir is the subdirectory of ArtifactsDir holding captured payloads.
const PayloadsDir = "payloads"

var payloadSeq atomic.Int64

// PersistPayload writes v as indented JSON to
// <ArtifactsDir>/payloads/<turn>-<seq>-<kind>.json when payload persistence
// is enabled. It returns the written path, or "" when nothing was written.
func PersistPayload(ctx context.Context, kind string, v any) string {
	if !PersistPayloadsEnabled() {
		return ""
	}
	turnID, ok := TurnIDFromContext(ctx)
	if !ok {
		turnID = "noturn"
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal %s payload: %v\n", kind, err)
		return ""
	}

	dir := filepath.Join(ArtifactsDir(), PayloadsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return ""
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%04d-%s.json", turnID, payloadSeq.Add(1), kind))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
		return ""
	}
	return path
}
