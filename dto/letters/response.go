package letters

import (
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
)

// URLFunc turns a stored path into a link the client can open, for example a
// presigned S3 URL. It returns "" when no link can be made.
type URLFunc func(path string) string

type ScanResponse struct {
	ID        uint      `json:"id"`
	NamaFile  string    `json:"nama_file"`
	FilePath  string    `json:"file_path"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DispositionResponse struct {
	models.Disposition
	FileTindakLanjutURL string `json:"file_tindak_lanjut_url,omitempty"`
}

// IncomingLetterResponse is a surat masuk with links for its files.
type IncomingLetterResponse struct {
	models.IncomingLetter
	Scans     []ScanResponse        `json:"scans,omitempty"`
	Disposisi []DispositionResponse `json:"disposisi,omitempty"`
}

type OutgoingLetterResponse struct {
	models.OutgoingLetter
	FileURL      string `json:"file_url,omitempty"`
	FileBuktiURL string `json:"file_bukti_url,omitempty"`
}

func link(url URLFunc, path string) string {
	if path == "" || url == nil {
		return ""
	}
	return url(path)
}

func NewScanResponse(scan models.LetterScan, url URLFunc) ScanResponse {
	return ScanResponse{
		ID:        scan.ID,
		NamaFile:  scan.NamaFile,
		FilePath:  scan.FilePath,
		URL:       link(url, scan.FilePath),
		CreatedAt: scan.CreatedAt,
	}
}

func NewDispositionResponse(d models.Disposition, url URLFunc) DispositionResponse {
	return DispositionResponse{Disposition: d, FileTindakLanjutURL: link(url, d.FileTindakLanjut)}
}

func NewDispositionResponses(list []models.Disposition, url URLFunc) []DispositionResponse {
	out := make([]DispositionResponse, 0, len(list))
	for _, d := range list {
		out = append(out, NewDispositionResponse(d, url))
	}
	return out
}

func NewIncomingLetterResponse(letter *models.IncomingLetter, url URLFunc) IncomingLetterResponse {
	if letter == nil {
		return IncomingLetterResponse{}
	}
	resp := IncomingLetterResponse{IncomingLetter: *letter}
	for _, s := range letter.Scans {
		resp.Scans = append(resp.Scans, NewScanResponse(s, url))
	}
	if len(letter.Dispositions) > 0 {
		resp.Disposisi = NewDispositionResponses(letter.Dispositions, url)
	}
	return resp
}

func NewOutgoingLetterResponse(letter *models.OutgoingLetter, url URLFunc) OutgoingLetterResponse {
	if letter == nil {
		return OutgoingLetterResponse{}
	}
	return OutgoingLetterResponse{
		OutgoingLetter: *letter,
		FileURL:        link(url, letter.FilePath),
		FileBuktiURL:   link(url, letter.FileBukti),
	}
}

func NewOutgoingLetterResponses(list []models.OutgoingLetter, url URLFunc) []OutgoingLetterResponse {
	out := make([]OutgoingLetterResponse, 0, len(list))
	for i := range list {
		out = append(out, NewOutgoingLetterResponse(&list[i], url))
	}
	return out
}
