package gateway

import "io"

// Progress reports how much of an upload body has been handed to the transport.
type Progress struct {
	Sent  int64
	Total int64
}

func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Sent) * 100 / float64(p.Total)
}

type ProgressFunc func(Progress)

type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(Progress{Sent: p.sent, Total: p.total})
	}
	return n, err
}
