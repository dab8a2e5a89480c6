package assistant

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bububa/qa-agents/agents"
)

// Display prints the outcome of a query
func Display(w io.Writer, res *Result, err error) {
	if err != nil {
		var qErr *QueryError
		if !errors.As(err, &qErr) {
			qErr = newQueryError(err)
		}
		if qErr.Kind == InputBlocked {
			fmt.Fprintf(w, "\n⚠️ 输入被拦截【%s】\n", qErr.Reason)
			return
		}
		fmt.Fprintf(w, "\n❌ 发生错误: %s\n", qErr.Reason)
		return
	}
	if res == nil || res.Main == nil || res.Rating == nil {
		return
	}

	fmt.Fprintf(w, "\n🤖 AI(Last Agent: %s): \n", res.Main.LastAgent.Name())
	if answer, ok := agents.FinalOutputAs[Answer](res.Main); ok {
		bs, err := yaml.Marshal(answer)
		if err == nil {
			w.Write(bs)
		} else {
			fmt.Fprintln(w, res.Main.FinalOutputText())
		}
	} else {
		fmt.Fprintln(w, strings.TrimSpace(res.Main.FinalOutputText()))
	}

	fmt.Fprintf(w, "\n⭐ 评价(%s): \n", res.Rating.LastAgent.Name())
	if res.Score.Known() {
		fmt.Fprintf(w, "评分: %s\n", res.Score)
	}
	fmt.Fprintln(w, strings.TrimSpace(res.Rating.FinalOutputText()))
}
