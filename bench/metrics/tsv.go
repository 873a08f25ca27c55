package metrics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Record 压测日志单行：
// label \t length \t avg-ms \t min-ms \t max-ms \t stdev-ms \t last-result
type Record struct {
	Label   string
	Length  int
	Average float64
	Min     float64
	Max     float64
	StDev   float64
	Result  float32
}

const recordFields = 7

// formatFloat 与 C 的 %g 一致（6 位有效数字）
func formatFloat(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func (r Record) fields() []string {
	return []string{
		r.Label,
		strconv.Itoa(r.Length),
		formatFloat(r.Average),
		formatFloat(r.Min),
		formatFloat(r.Max),
		formatFloat(r.StDev),
		formatFloat(float64(r.Result)),
	}
}

// TSVWriter 以制表符分隔追加写入 Record
type TSVWriter struct {
	w *csv.Writer
}

// NewTSVWriter 包装 w
func NewTSVWriter(w io.Writer) *TSVWriter {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &TSVWriter{w: cw}
}

// WriteRecord 写入一行并立即 flush
func (t *TSVWriter) WriteRecord(r Record) error {
	if err := t.w.Write(r.fields()); err != nil {
		return err
	}
	t.w.Flush()
	return t.w.Error()
}

// ErrMalformedRecord 日志行不是 7 列的压测记录
var ErrMalformedRecord = errors.New("metrics: malformed record")

func parseRecord(fields []string) (Record, error) {
	if len(fields) != recordFields {
		return Record{}, fmt.Errorf("%w: %d fields", ErrMalformedRecord, len(fields))
	}
	var (
		r   Record
		err error
	)
	r.Label = fields[0]
	if r.Length, err = strconv.Atoi(fields[1]); err != nil {
		return Record{}, fmt.Errorf("%w: length: %v", ErrMalformedRecord, err)
	}
	vals := make([]float64, 5)
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(fields[2+i], 64); err != nil {
			return Record{}, fmt.Errorf("%w: field %d: %v", ErrMalformedRecord, 2+i, err)
		}
	}
	r.Average, r.Min, r.Max, r.StDev = vals[0], vals[1], vals[2], vals[3]
	r.Result = float32(vals[4])
	return r, nil
}

// ReadLog 解析 r 中所有合法记录，其他格式的行（如旧工具写入的少列记录）计入 skipped
func ReadLog(r io.Reader) (records []Record, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			return records, skipped, nil
		}
		if err != nil {
			return records, skipped, err
		}
		rec, perr := parseRecord(fields)
		if perr != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
}

// Aggregate report 命令使用的 (label, length) 聚合行
type Aggregate struct {
	Label      string
	Length     int
	Runs       int
	BestAvg    float64
	MeanAvg    float64
	LastResult float32
}

// Summarize 按 label、length 分组，先按 length 再按 label 排序
func Summarize(records []Record) []Aggregate {
	type key struct {
		label  string
		length int
	}
	idx := make(map[key]int)
	var out []Aggregate
	for _, r := range records {
		k := key{r.Label, r.Length}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Aggregate{Label: r.Label, Length: r.Length, BestAvg: r.Average})
		}
		a := &out[i]
		a.Runs++
		a.MeanAvg += (r.Average - a.MeanAvg) / float64(a.Runs)
		if r.Average < a.BestAvg {
			a.BestAvg = r.Average
		}
		a.LastResult = r.Result
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Length != out[j].Length {
			return out[i].Length < out[j].Length
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// WriteReport 以对齐文本表格输出聚合结果
func WriteReport(w io.Writer, aggs []Aggregate) error {
	if _, err := fmt.Fprintf(w, "%-16s %12s %6s %12s %12s %12s\n",
		"Algorithm", "Length", "Runs", "BestAvgMs", "MeanAvgMs", "Result"); err != nil {
		return err
	}
	for _, a := range aggs {
		if _, err := fmt.Fprintf(w, "%-16s %12d %6d %12.4f %12.4f %12.6g\n",
			a.Label, a.Length, a.Runs, a.BestAvg, a.MeanAvg, a.LastResult); err != nil {
			return err
		}
	}
	return nil
}
