package models

// GenerateRequest asks the server to write a data file.
// FileName is a bare file name placed beside the configured output path; an
// empty name uses the configured output path itself. A nil BlockCount uses
// the configured count.
type GenerateRequest struct {
	FileName   string `json:"file_name"`
	BlockCount *int64 `json:"block_count,omitempty"`
}
