package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bububa/qa-agents/schema"
)

const (
	Prompt        = "\n请输入你的问题 (输入 'quit' 退出): "
	QuitCommand   = "quit"
	Farewell      = "感谢使用，再见! 👋"
	EmptyInput    = "输入不能为空，请重新输入"
	Interrupted   = "\n程序已被用户中断"
	maxInputBytes = 1 << 20
)

// Processor answers one query
type Processor interface {
	Process(ctx context.Context, input string, user schema.UserInfo) (*Result, error)
}

// Session is the interactive question loop, one query at a time
type Session struct {
	processor Processor
	user      schema.UserInfo
	in        io.Reader
	out       io.Writer
}

func NewSession(processor Processor, user schema.UserInfo, in io.Reader, out io.Writer) *Session {
	return &Session{
		processor: processor,
		user:      user,
		in:        in,
		out:       out,
	}
}

func (s *Session) welcome() {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(s.out, "\n"+line)
	fmt.Fprintln(s.out, "🤖 欢迎使用 AI 助手!")
	fmt.Fprintln(s.out, "💡 输入您的问题，系统将尝试回答")
	fmt.Fprintln(s.out, "❓ 输入 'quit' 退出程序")
	fmt.Fprintln(s.out, line+"\n")
}

// Run loops until quit, end of input or ctx cancellation. Only a read failure is returned as error.
func (s *Session) Run(ctx context.Context) error {
	s.welcome()
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 4096), maxInputBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(s.out, Prompt)
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, Interrupted)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(s.out, Interrupted)
			return <-readErr
		}
		input := strings.TrimSpace(line)
		if strings.EqualFold(input, QuitCommand) {
			fmt.Fprintln(s.out, Farewell)
			return nil
		}
		if input == "" {
			fmt.Fprintln(s.out, EmptyInput)
			continue
		}
		res, err := s.processor.Process(ctx, input, s.user)
		if ctx.Err() != nil {
			fmt.Fprintln(s.out, Interrupted)
			return nil
		}
		Display(s.out, res, err)
	}
}
