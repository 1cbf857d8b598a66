package pipeline

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// buildArchive bundles all binary visual payloads into one zip. Filenames
// are deterministic and sequential: the first videoCount payloads are
// clips, the rest are images, and the position alone decides the extension.
func buildArchive(payloads [][]byte, videoCount int) ([]byte, []string, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	names := make([]string, 0, len(payloads))
	for i, payload := range payloads {
		var name string
		if i < videoCount {
			name = fmt.Sprintf("clip_%02d.mp4", i+1)
		} else {
			name = fmt.Sprintf("image_%02d.png", i-videoCount+1)
		}

		entry, err := w.Create(name)
		if err != nil {
			return nil, nil, fmt.Errorf("creating archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(payload); err != nil {
			return nil, nil, fmt.Errorf("writing archive entry %s: %w", name, err)
		}

		names = append(names, name)
	}

	if err := w.Close(); err != nil {
		return nil, nil, fmt.Errorf("closing archive: %w", err)
	}

	return buf.Bytes(), names, nil
}
