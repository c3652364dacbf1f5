// Package agent declares the conversational agent hierarchy for the fiscal
// data system. The configs are consumed by an external LLM orchestration
// runtime; this package only defines who does what with which tools.
package agent

// Config describes one agent: its routing description, its working
// instruction, and the toolset methods it may call.
type Config struct {
	Name        string   `json:"name"`
	Model       string   `json:"model"`
	Description string   `json:"description"`
	Instruction string   `json:"instruction"`
	Tools       []string `json:"tools"`
	SubAgents   []string `json:"sub_agents,omitempty"`
}

// PrimaryModel is the default model for all agents
const PrimaryModel = "gemini-2.0-flash"

var EntityLookupAgent = Config{
	Name:        "entity_lookup_agent",
	Model:       PrimaryModel,
	Description: "Finds and identifies Illinois local government entities by name.",
	Instruction: `You are the entity lookup specialist for Illinois local governments.
Search for entities when the user names a city, village, township, or district.
Many Illinois entities share a name; when a search returns several matches,
present them with their county and ask which one is meant. Once an entity is
confirmed, keep its code for follow-up questions.`,
	Tools: []string{
		"search_government_entity",
		"get_entity_details",
	},
}

var FiscalQueryAgent = Config{
	Name:        "fiscal_query_agent",
	Model:       PrimaryModel,
	Description: "Answers revenue, expenditure, fund balance, debt, and pension questions for one entity.",
	Instruction: `You answer financial questions about a single Illinois local government.
Resolve the entity code first if only a name is known, then fetch the figures
the user asked for. Quote dollar amounts with their category names and note
the fund types involved when the user asks where money sits.`,
	Tools: []string{
		"get_revenue_data",
		"get_expenditure_data",
		"get_fund_balance_data",
		"get_debt_data",
		"get_pension_data",
	},
}

var ComparisonAgent = Config{
	Name:        "comparison_agent",
	Model:       PrimaryModel,
	Description: "Compares entities, finds peers, and ranks entities by a metric.",
	Instruction: `You handle side-by-side comparisons, peer benchmarking, and rankings.
Comparisons need 2 to 10 entity codes. Peers are entities of the same type
with similar population. Rankings support population, eav, and employees;
ask which metric when the user is vague.`,
	Tools: []string{
		"compare_entities",
		"find_peer_entities",
		"rank_entities",
	},
}

var FiscalHealthAgent = Config{
	Name:        "fiscal_health_agent",
	Model:       PrimaryModel,
	Description: "Analyzes the fiscal health and financial condition of an entity.",
	Instruction: `You analyze fiscal health. Compute the health report for the requested
entity and explain each indicator: operating margin, fund balance ratio, debt
per capita, and pension funded ratio. A null indicator means the underlying
data was not reported; say so rather than guessing. Offer the emailed report
when the user wants to keep a copy.`,
	Tools: []string{
		"calculate_fiscal_health_score",
		"get_debt_data",
		"get_pension_data",
	},
}

var GeographicAgent = Config{
	Name:        "geographic_agent",
	Model:       PrimaryModel,
	Description: "Handles county-level listings and aggregates.",
	Instruction: `You answer county-level questions: which entities a county contains and
its aggregate population, assessed value, and employment. Filter by entity
type when the user asks for villages, townships, or districts specifically.`,
	Tools: []string{
		"get_county_entities",
		"get_county_financial_summary",
	},
}

var GreetingAgent = Config{
	Name:        "greeting_agent",
	Model:       PrimaryModel,
	Description: "Handles greetings, farewells, and help requests.",
	Instruction: `You greet users and explain what the system can do: entity lookup,
financial breakdowns, fiscal health analysis, comparisons, and county
summaries for Illinois local governments. Keep it short.`,
	Tools: nil,
}

// RootAgent coordinates the sub-agents and may call any tool directly
var RootAgent = Config{
	Name:        "il_fiscal_data_agent",
	Model:       PrimaryModel,
	Description: "Illinois local government financial data assistant.",
	Instruction: `You are the coordinator for Illinois local government financial data.
Route entity identification to the lookup agent, single-entity financial
questions to the fiscal query agent, health analysis to the fiscal health
agent, comparisons and rankings to the comparison agent, and county-level
questions to the geographic agent. Data comes from annual comptroller
filings; never invent figures the tools did not return.`,
	Tools: AllToolNames(),
	SubAgents: []string{
		EntityLookupAgent.Name,
		FiscalQueryAgent.Name,
		ComparisonAgent.Name,
		FiscalHealthAgent.Name,
		GeographicAgent.Name,
		GreetingAgent.Name,
	},
}

// SubAgents lists every specialized agent under the root
func SubAgents() []Config {
	return []Config{
		EntityLookupAgent,
		FiscalQueryAgent,
		ComparisonAgent,
		FiscalHealthAgent,
		GeographicAgent,
		GreetingAgent,
	}
}
