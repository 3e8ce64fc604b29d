package fileloader

import (
	"net/url"
	"path"
	"strings"
)

// compressionExtensions maps compression extensions to their CompressionType
var compressionExtensions = map[string]CompressionType{
	".gz":  CompressionGzip,
	".bz2": CompressionBzip2,
	".xz":  CompressionXZ,
}

// refPath returns the path component of a reference, dropping URL query and fragment.
func refPath(ref string) string {
	if strings.Contains(ref, "://") {
		if u, err := url.Parse(ref); err == nil {
			return u.Path
		}
	}
	return ref
}

// DetectKind determines the content kind and the compression suggested by the
// reference's extensions, e.g. "cpu.json.gz" is JSON compressed with gzip.
// Text is the default.
func DetectKind(ref string) (Kind, CompressionType) {
	if strings.HasPrefix(strings.ToLower(ref), "sqlite://") {
		return KindSQLite, CompressionNone
	}

	lower := strings.ToLower(path.Base(strings.ReplaceAll(refPath(ref), `\`, "/")))
	compression := CompressionNone
	if ct, ok := compressionExtensions[path.Ext(lower)]; ok {
		compression = ct
		lower = strings.TrimSuffix(lower, path.Ext(lower))
	}

	switch path.Ext(lower) {
	case ".json", ".jsonl", ".ndjson":
		return KindJSON, compression
	case ".xlsx":
		return KindXLSX, compression
	default:
		return KindText, compression
	}
}
