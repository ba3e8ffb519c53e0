// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"strings"

	"github.com/warp4j/warp4j/internal/target"
)

// Extractor picks the codec from the file name. The zero value is ready to use.
type Extractor struct{}

// Extract unpacks src into destDir as a zip or a tar.gz depending on its extension.
func (Extractor) Extract(ctx context.Context, src, destDir string, p target.Platform) error {
	if strings.HasSuffix(strings.ToLower(src), ".zip") {
		return ExtractZip(ctx, src, destDir)
	}
	return ExtractTarGz(ctx, src, destDir, p)
}
