package logger

import (
	"io"
	"log"
	"strings"
	"sync"
)

// Optional dump of full oracle exchanges to a dedicated writer. Prompts can
// run to tens of kilobytes, so they stay out of the main log by default.

var (
	oracleMu   sync.Mutex
	oracleLog  *log.Logger
	oracleDump bool
)

func SetOracleWriter(w io.Writer) {
	oracleMu.Lock()
	defer oracleMu.Unlock()
	if w == nil {
		oracleLog = nil
		return
	}
	oracleLog = log.New(w, "", log.LstdFlags)
}

func EnableOracleDump(enabled bool) {
	oracleMu.Lock()
	oracleDump = enabled
	oracleMu.Unlock()
}

func logOracle(kind string, sections ...[2]string) {
	oracleMu.Lock()
	l := oracleLog
	enabled := oracleDump
	oracleMu.Unlock()
	if l == nil || !enabled {
		return
	}
	var b strings.Builder
	b.WriteString("[ORACLE][")
	b.WriteString(kind)
	b.WriteString("]\n")
	for _, sec := range sections {
		title := strings.TrimSpace(sec[0])
		if title == "" {
			title = "CONTENT"
		}
		b.WriteString("--- ")
		b.WriteString(title)
		b.WriteString(" ---\n")
		b.WriteString(sec[1])
		if !strings.HasSuffix(sec[1], "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	l.Print(b.String())
}

func LogOracleRequest(model, systemPrompt, userPrompt string) {
	logOracle("request:"+model, [2]string{"SYSTEM", systemPrompt}, [2]string{"USER", userPrompt})
}

func LogOracleResponse(model, raw string) {
	logOracle("response:"+model, [2]string{"RAW", raw})
}
