package assistant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bububa/qa-agents/agents"
	"github.com/bububa/qa-agents/schema"
)

var testModels = Models{
	Default: "default",
	Safety:  "safety",
	Math:    "math",
	Refine:  "refine",
	Main:    "main",
	Rate:    "rate",
}

var testUser = schema.UserInfo{UserID: "ID001", UserName: "张三"}

type fakeClient struct {
	mu       sync.Mutex
	replies  map[string][]openai.ChatCompletionMessage
	requests []openai.ChatCompletionRequest
}

func newFakeClient() *fakeClient {
	return &fakeClient{replies: make(map[string][]openai.ChatCompletionMessage)}
}

func (c *fakeClient) script(model string, msgs ...openai.ChatCompletionMessage) *fakeClient {
	c.replies[model] = append(c.replies[model], msgs...)
	return c
}

func (c *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	queue := c.replies[req.Model]
	if len(queue) == 0 {
		return openai.ChatCompletionResponse{}, fmt.Errorf("no reply for %s", req.Model)
	}
	c.replies[req.Model] = queue[1:]
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: queue[0]}}}, nil
}

func (c *fakeClient) calls(model string) int {
	var n int
	for _, req := range c.requests {
		if req.Model == model {
			n++
		}
	}
	return n
}

func text(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}
}

func toolCall(id, name, args string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{{
			ID:       id,
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: name, Arguments: args},
		}},
	}
}

const (
	safeVerdict      = `{"is_sensitive":false,"reasoning":"普通问题"}`
	sensitiveVerdict = `{"is_sensitive":true,"reasoning":"涉及敏感政治话题"}`
	goodAnswer       = `{"origin_question":"什么是 DeepSeek?","answer_chinese":"一家中国AI公司","answer_english":"A Chinese AI company","source":"模型知识"}`
)

func newTestPipeline(clt *fakeClient) *Pipeline {
	runner := agents.NewRunner(agents.WithLogger(zap.NewNop()))
	return NewPipeline(runner, NewRoster(clt, runner, Settings{Models: testModels, OutputMode: agents.JSONSchemaOutput}))
}

func TestProcessSuccess(t *testing.T) {
	clt := newFakeClient().
		script("safety", text(safeVerdict)).
		script("main", text(goodAnswer)).
		script("rate", text("评分：4/5\n回答准确。"))
	res, err := newTestPipeline(clt).Process(context.Background(), "什么是 DeepSeek?", testUser)
	require.NoError(t, err)

	answer, ok := agents.FinalOutputAs[Answer](res.Main)
	require.True(t, ok)
	assert.Equal(t, "A Chinese AI company", answer.AnswerEnglish)
	assert.Equal(t, MainAgentName, res.Main.LastAgent.Name())
	assert.Equal(t, RateAgentName, res.Rating.LastAgent.Name())
	assert.Equal(t, Rating{Score: 4, Max: MaxScore}, res.Score)

	var rateReq openai.ChatCompletionRequest
	for _, req := range clt.requests {
		if req.Model == "rate" {
			rateReq = req
		}
	}
	msgs := rateReq.Messages
	require.GreaterOrEqual(t, len(msgs), 4)
	assert.Equal(t, RatingRequest, msgs[len(msgs)-1].Content)
	assert.Equal(t, "什么是 DeepSeek?", msgs[1].Content)
	assert.JSONEq(t, goodAnswer, msgs[2].Content)
}

func TestProcessBlocked(t *testing.T) {
	clt := newFakeClient().script("safety", text(sensitiveVerdict))
	res, err := newTestPipeline(clt).Process(context.Background(), "敏感问题", testUser)
	require.Error(t, err)
	assert.Nil(t, res)

	var qErr *QueryError
	require.True(t, errors.As(err, &qErr))
	assert.Equal(t, InputBlocked, qErr.Kind)
	assert.Equal(t, "涉及敏感政治话题", qErr.Reason)
	var tripErr *agents.InputGuardrailTripwireError
	assert.True(t, errors.As(err, &tripErr))

	assert.Equal(t, 0, clt.calls("main"))
	assert.Equal(t, 0, clt.calls("rate"))
}

func TestProcessGeneralError(t *testing.T) {
	clt := newFakeClient().
		script("safety", text(safeVerdict)).
		script("main", text("not json"))
	_, err := newTestPipeline(clt).Process(context.Background(), "hello", testUser)
	var qErr *QueryError
	require.True(t, errors.As(err, &qErr))
	assert.Equal(t, GeneralError, qErr.Kind)
	assert.ErrorIs(t, err, agents.ErrInvalidOutput)
	assert.Equal(t, 0, clt.calls("rate"))
}

func TestProcessMathHandoff(t *testing.T) {
	clt := newFakeClient()
	runner := agents.NewRunner(agents.WithLogger(zap.NewNop()))
	roster := NewRoster(clt, runner, Settings{Models: testModels, OutputMode: agents.JSONSchemaOutput})
	clt.script("safety", text(safeVerdict)).
		script("main", toolCall("h1", agents.HandoffToolName(roster.Math), "{}")).
		script("math", toolCall("c1", "calculator", `{"expression":"12*(3+4)"}`), text("结果是 84")).
		script("rate", text("我给 5 分"))

	res, err := NewPipeline(runner, roster).Process(context.Background(), "12*(3+4) 等于多少?", testUser)
	require.NoError(t, err)
	assert.Equal(t, MathAgentName, res.Main.LastAgent.Name())
	assert.Equal(t, "结果是 84", res.Main.FinalOutputText())
	assert.EqualValues(t, 5, res.Score.Score)

	var toolOutput string
	for _, msg := range res.Main.NewItems {
		if msg.ToolCallID() == "c1" {
			toolOutput = msg.Content()
		}
	}
	assert.JSONEq(t, `{"result":84,"ok":true}`, toolOutput)
}

func TestRosterWiring(t *testing.T) {
	runner := agents.NewRunner(agents.WithLogger(zap.NewNop()))
	roster := NewRoster(newFakeClient(), runner, Settings{
		Models:      Models{Default: "m", Main: "big"},
		OutputMode:  agents.JSONSchemaOutput,
		Temperature: 0.3,
		MaxTokens:   1024,
	})
	assert.Equal(t, "big", roster.Main.Model())
	assert.Equal(t, "m", roster.Rate.Model())
	for _, agent := range []*agents.Agent{roster.Safety, roster.Math, roster.Refine, roster.Main, roster.Rate} {
		assert.EqualValues(t, 0.3, agent.Temperature(), agent.Name())
		assert.Equal(t, 1024, agent.MaxTokens(), agent.Name())
	}
	require.Len(t, roster.Main.Handoffs(), 1)
	assert.Same(t, roster.Math, roster.Main.Handoffs()[0])
	require.Len(t, roster.Main.Tools(), 1)
	assert.Equal(t, "refine_question", roster.Main.Tools()[0].Name())
	require.Len(t, roster.Math.Tools(), 1)
	assert.Equal(t, "calculator", roster.Math.Tools()[0].Name())
	assert.Len(t, roster.Main.InputGuardrails(), 1)
	assert.True(t, roster.Main.HasOutputType())
	assert.Contains(t, roster.Main.SystemPrompt(), MathAgentName)
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		text  string
		score float64
	}{
		{"评分：4/5\n回答很好", 4},
		{"Score: 3", 3},
		{"rating 4.5 / 5", 4.5},
		{"整体不错，给4分", 4},
		{"评分为 5", 5},
		{"我认为是 2，因为回答不完整", 2},
		{"DeepSeek-R1 的介绍，评分：3", 3},
		{"10/10", 0},
		{"没有评分", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseRating(tt.text)
			assert.Equal(t, tt.score, got.Score)
			assert.EqualValues(t, MaxScore, got.Max)
		})
	}
}

func TestRatingString(t *testing.T) {
	assert.Equal(t, "4/5", Rating{Score: 4, Max: 5}.String())
	assert.Equal(t, "4.5/5", Rating{Score: 4.5, Max: 5}.String())
	assert.Equal(t, "?/5", Rating{Max: 5}.String())
	assert.True(t, Rating{Score: 5, Max: 5}.IsGoalMet())
	assert.False(t, Rating{Score: 4, Max: 5}.IsGoalMet())
}

func TestDisplay(t *testing.T) {
	t.Run("blocked", func(t *testing.T) {
		var buf bytes.Buffer
		Display(&buf, nil, &QueryError{Kind: InputBlocked, Reason: "政治话题"})
		assert.Equal(t, "\n⚠️ 输入被拦截【政治话题】\n", buf.String())
	})
	t.Run("general", func(t *testing.T) {
		var buf bytes.Buffer
		Display(&buf, nil, errors.New("boom"))
		assert.Equal(t, "\n❌ 发生错误: boom\n", buf.String())
	})
	t.Run("success", func(t *testing.T) {
		clt := newFakeClient().
			script("safety", text(safeVerdict)).
			script("main", text(goodAnswer)).
			script("rate", text("评分：4/5 不错"))
		res, err := newTestPipeline(clt).Process(context.Background(), "什么是 DeepSeek?", testUser)
		require.NoError(t, err)
		var buf bytes.Buffer
		Display(&buf, res, nil)
		out := buf.String()
		assert.Contains(t, out, "🤖 AI(Last Agent: MainAssistant)")
		assert.Contains(t, out, "answer_english: A Chinese AI company")
		assert.Contains(t, out, "⭐ 评价(RateAssistant)")
		assert.Contains(t, out, "评分: 4/5")
	})
}

type stubProcessor struct {
	inputs []string
	err    error
	block  bool
}

func (p *stubProcessor) Process(ctx context.Context, input string, user schema.UserInfo) (*Result, error) {
	p.inputs = append(p.inputs, input)
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return nil, p.err
}

func TestSessionQuit(t *testing.T) {
	proc := &stubProcessor{err: &QueryError{Kind: GeneralError, Reason: "boom"}}
	var out bytes.Buffer
	in := strings.NewReader("\n   \nhello\nQUIT\nignored\n")
	require.NoError(t, NewSession(proc, testUser, in, &out).Run(context.Background()))

	assert.Equal(t, []string{"hello"}, proc.inputs)
	s := out.String()
	assert.Contains(t, s, "🤖 欢迎使用 AI 助手!")
	assert.Equal(t, 2, strings.Count(s, EmptyInput))
	assert.Contains(t, s, "❌ 发生错误: boom")
	assert.Contains(t, s, Farewell)
	assert.NotContains(t, s, "ignored")
}

func TestSessionEOF(t *testing.T) {
	proc := &stubProcessor{}
	var out bytes.Buffer
	require.NoError(t, NewSession(proc, testUser, strings.NewReader("q1"), &out).Run(context.Background()))
	assert.Equal(t, []string{"q1"}, proc.inputs)
	assert.Contains(t, out.String(), strings.TrimSpace(Interrupted))
}

func TestSessionCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()
	proc := &stubProcessor{block: true}
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- NewSession(proc, testUser, pr, &out).Run(ctx)
	}()
	_, err := pw.Write([]byte("long question\n"))
	require.NoError(t, err)
	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), strings.TrimSpace(Interrupted))
}
