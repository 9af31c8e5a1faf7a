package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

// JUnit schema: testsuite -> testcase (+failure|error|skipped)
type junitTestsuite struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Errors   int             `xml:"errors,attr"`
	Skipped  int             `xml:"skipped,attr"`
	Time     string          `xml:"time,attr"`
	Testcase []junitTestcase `xml:"testcase"`
}

type junitTestcase struct {
	Classname string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitProblem `xml:"failure,omitempty"`
	Error     *junitProblem `xml:"error,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}

type junitProblem struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// WriteJUnit renders results as one JUnit testsuite. Failed cases become <failure>,
// broken ones <error>.
func WriteJUnit(w io.Writer, suiteName string, results []CaseResult) error {
	ts := junitTestsuite{Name: suiteName, Tests: len(results)}

	var total time.Duration
	for _, r := range results {
		total += r.Duration
		tc := junitTestcase{
			Classname: suiteName,
			Name:      r.FullName,
			Time:      seconds(r.Duration),
		}
		switch r.Status {
		case StatusFailed:
			ts.Failures++
			tc.Failure = &junitProblem{Message: firstLine(r.Message), Type: "AssertionError", Text: r.Message}
		case StatusBroken:
			ts.Errors++
			tc.Error = &junitProblem{Message: firstLine(r.Message), Type: "Error", Text: r.Message}
		case StatusSkipped:
			ts.Skipped++
			tc.Skipped = &junitSkipped{Message: r.Message}
		}
		ts.Testcase = append(ts.Testcase, tc)
	}
	ts.Time = seconds(total)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(ts)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
