package coupon

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ExportCSV экспортирует журнал пройденных квизов в CSV.
func ExportCSV(submissions []Submission) ([]byte, error) {
	records := make([][]string, len(submissions)+1)
	records[0] = []string{
		"ID",
		"UserID",
		"Answers",
		"Timestamp",
	}

	for i, s := range submissions {
		records[i+1] = []string{
			s.ID,
			s.UserID,
			formatAnswers(s),
			s.Timestamp.Format(time.RFC3339),
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}

	return buf.Bytes(), nil
}

// formatAnswers выводит ответы по порядку вопросов: "1=a;2=c;3=b".
func formatAnswers(s Submission) string {
	idx := make([]int, 0, len(s.Answers))
	for k := range s.Answers {
		idx = append(idx, k)
	}

	sort.Ints(idx)

	parts := make([]string, 0, len(idx))
	for _, k := range idx {
		parts = append(parts, strconv.Itoa(k)+"="+s.Answers[k])
	}

	return strings.Join(parts, ";")
}
