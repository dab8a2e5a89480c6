package assistant

import (
	"time"

	"github.com/bububa/qa-agents/agents"
	"github.com/bububa/qa-agents/components/systemprompt"
	"github.com/bububa/qa-agents/components/systemprompt/cot"
	"github.com/bububa/qa-agents/tools"
	"github.com/bububa/qa-agents/tools/calculator"
)

const (
	SafetyAgentName = "内容审核"
	MathAgentName   = "MathAssistant"
	RefineAgentName = "RefineAssistant"
	MainAgentName   = "MainAssistant"
	RateAgentName   = "RateAssistant"
)

// Answer is the structured reply of the main assistant
type Answer struct {
	// OriginQuestion 原始问题
	OriginQuestion string `json:"origin_question" yaml:"origin_question" description:"原始问题 (the user's original question)" validate:"required"`
	// AnswerChinese 中文回答
	AnswerChinese string `json:"answer_chinese" yaml:"answer_chinese" description:"中文回答 (answer in Chinese)" validate:"required"`
	// AnswerEnglish 英文回答
	AnswerEnglish string `json:"answer_english" yaml:"answer_english" description:"英文回答 (answer in English)" validate:"required"`
	// Source 回答参考知识来源
	Source string `json:"source" yaml:"source" description:"回答参考知识来源 (where the answer comes from, e.g. web search, document, model knowledge)" validate:"required"`
}

// SensitiveCheckOutput is the verdict of the content safety checker
type SensitiveCheckOutput struct {
	IsSensitive bool   `json:"is_sensitive" description:"true when the input touches sensitive political topics"`
	Reasoning   string `json:"reasoning" description:"简短的理由 (short reason for the decision)"`
}

// Models picks the model of every agent, empty roles use Default
type Models struct {
	Default string
	Safety  string
	Math    string
	Refine  string
	Main    string
	Rate    string
}

func (m Models) pick(v string) string {
	if v == "" {
		return m.Default
	}
	return v
}

// Settings apply to every agent of the roster
type Settings struct {
	Models      Models
	OutputMode  agents.OutputMode
	Temperature float32 // 0 leaves the model default
	MaxTokens   int     // 0 leaves the completion length unbounded
}

func (s Settings) base(clt agents.ChatClient, model string) []agents.Option {
	return []agents.Option{
		agents.WithClient(clt),
		agents.WithModel(s.Models.pick(model)),
		agents.WithTemperature(s.Temperature),
		agents.WithMaxTokens(s.MaxTokens),
	}
}

// Roster holds the agents of the question answering workflow
type Roster struct {
	Safety *agents.Agent
	Math   *agents.Agent
	Refine *agents.Agent
	Main   *agents.Agent
	Rate   *agents.Agent
}

// NewRoster builds the agents. extraTools (web search, document query) are given to the main assistant.
func NewRoster(clt agents.ChatClient, runner *agents.Runner, settings Settings, extraTools ...tools.Tool) *Roster {
	models := settings.Models
	toolLogger := tools.WithLogHooks(runner.Logger())
	ret := new(Roster)

	ret.Safety = agents.NewAgent(SafetyAgentName, append(settings.base(clt, models.Safety),
		agents.WithOutputType[SensitiveCheckOutput]("SensitiveCheckOutput"),
		agents.WithOutputMode(settings.OutputMode),
		agents.WithSystemPromptGenerator(cot.New(
			cot.WithBackground(
				"- 检查用户输入是否包含敏感的政治话题。",
				"- 如果内容包含以下内容，is_sensitive 返回 true：",
				"  - 有争议的政治讨论",
				"  - 敏感的地缘政治问题",
				"  - 极端政治观点",
			),
			cot.WithOutputInstructs("- 请为决定提供简短的理由。"),
		)),
	)...)

	ret.Math = agents.NewAgent(MathAgentName, append(settings.base(clt, models.Math),
		agents.WithHandoffDescription("解答数学相关的问题 (math questions)"),
		agents.WithTools(calculator.New(toolLogger)),
		agents.WithSystemPromptGenerator(cot.New(
			cot.WithBackground("- 你是一个数学助手，专门解答数学相关的问题"),
			cot.WithSteps("- 需要计算时使用 calculator 工具，不要心算"),
		)),
	)...)

	ret.Refine = agents.NewAgent(RefineAgentName, append(settings.base(clt, models.Refine),
		agents.WithSystemPromptGenerator(cot.New(
			cot.WithBackground("- 请根据输入的问题,生成3个细化的相关问题,不需要解释，只需要列出问题"),
		)),
	)...)

	mainTools := []tools.Tool{
		ret.Refine.AsTool(runner, "refine_question", "负责细化问题，以获得更多细节"),
	}
	mainTools = append(mainTools, extraTools...)
	ret.Main = agents.NewAgent(MainAgentName, append(settings.base(clt, models.Main),
		agents.WithHandoffs(ret.Math),
		agents.WithTools(mainTools...),
		agents.WithInputGuardrails(SafetyGuardrail(runner, ret.Safety)),
		agents.WithOutputType[Answer]("Answer"),
		agents.WithOutputMode(settings.OutputMode),
		agents.WithSystemPromptGenerator(cot.New(
			cot.WithBackground("- 通过中英文双语回答来协助用户。如果询问数学问题,请交给" + MathAgentName + "。其他问题可借助工具完成。"),
			cot.WithOutputInstructs(
				"- origin_question: 用户的原始问题",
				"- answer_chinese: 中文回答",
				"- answer_english: English answer",
				"- source: 回答参考的知识来源",
			),
			cot.WithContextProviders(systemprompt.NewFuncProvider("当前日期", func() string {
				return time.Now().Format("2006-01-02")
			})),
		)),
	)...)

	ret.Rate = agents.NewAgent(RateAgentName, append(settings.base(clt, models.Rate),
		agents.WithSystemPromptGenerator(cot.New(
			cot.WithBackground("- 你是一个裁判。会根据输入的对话记录，对最终答案进行评价与打分, 评分范围为1-5"),
			cot.WithOutputInstructs("- 先给出评分，格式为 评分：X/5，再给出评价"),
		)),
	)...)
	return ret
}

// SafetyGuardrail trips when the safety checker flags the input as sensitive
func SafetyGuardrail(runner *agents.Runner, checker *agents.Agent) agents.InputGuardrail {
	return agents.AgentGuardrail("safety", runner, checker, func(out any) bool {
		v, ok := out.(*SensitiveCheckOutput)
		return ok && v.IsSensitive
	})
}
