package agent

import (
	"context"
	"fmt"

	"github.com/etnz/mileage"
	"github.com/etnz/mileage/renderer"
	"google.golang.org/genai"
)

// DefaultModel is used when the config does not name one.
const DefaultModel = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		// Used by facilitators to know what they can expected from the expert
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is a frequent flyer tracking his airline loyalty program: miles balance,
			elite status, qualification cycles. He is here primarily to understand where his
			status stands and what his miles are worth.

			Devise a plan of questions to ask to each experts and come up with the best response
			to the user's request.

			The user will assume that you checked his ledger first, ask the Ledger Keeper before
			guessing any figure.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTravelExpert returns an expert grounding award-travel questions in
// search.
func NewTravelExpert(model string) *Expert {
	return &Expert{
		Name: "Traveler",
		Description: `This is an expert in airline loyalty programs,
		very well aware of award charts, elite tiers, partner carriers,
		and the latest program changes.
		Ask the Traveler whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in airline loyalty programs: award charts, elite qualification,
			alliances and partner earning. You leverage Google Search to ground your assertions
			in a solid truth.
			You can get the latest program news too, and you know how to relate them to the
			user's request.
				`}}},
		},
	}
}

// NewLedgerKeeper returns the expert in charge of reading the member's
// ledger through function tools. load supplies the current ledger on every
// call, so the keeper never answers from a stale state.
func NewLedgerKeeper(model string, load func() (*mileage.Ledger, error)) *Expert {
	lib := []Function{statusTool(load), balanceTool(load), flightsTool(load)}

	return &Expert{
		Name: "LedgerKeeper",
		Description: `This is the Ledger Keeper. He is in charge of reading the member's loyalty ledger.
		He can report the current elite status, the miles balance by source, and the flight list.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the keeper of the member's loyalty ledger.
				You know how to use the Tools to extract relevant information about the member's
				miles and status. You are part of a team of experts, yours is everything recorded
				in the ledger. They might ask you questions in approximative language, figure out
				what they meant.

				Use the available tools to get information about
				  - the current qualification cycle and elite status
				  - the miles balance by source
				  - the recorded flights
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// toolResponse wraps a rendered markdown result or an error into the genai
// response shape.
func toolResponse(id, name, output string, err error) *genai.FunctionResponse {
	resp := &genai.FunctionResponse{ID: id, Name: name}
	if err != nil {
		resp.Response = map[string]any{"error": err.Error()}
		return resp
	}
	resp.Response = map[string]any{"output": output}
	return resp
}

func statusTool(load func() (*mileage.Ledger, error)) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Status",
			Description: "Status reports the member's current qualification cycle: starting status, points accumulated, achieved and actual status, and the miles balance.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted status report for the current qualification cycle.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			ledger, err := load()
			if err != nil {
				return toolResponse(id, "Status", "", err)
			}
			report, err := ledger.NewStatusReport()
			if err != nil {
				return toolResponse(id, "Status", "", fmt.Errorf("cannot compute status: %w", err))
			}
			return toolResponse(id, "Status", renderer.Status(report), nil)
		},
	}
}

func balanceTool(load func() (*mileage.Ledger, error)) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Balance",
			Description: "Balance reports the member's miles balance broken down by source (subscription, card, flight, other, burn) with acquisition costs.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the miles balance by source.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			ledger, err := load()
			if err != nil {
				return toolResponse(id, "Balance", "", err)
			}
			return toolResponse(id, "Balance", renderer.Balance(ledger.NewBalanceReport()), nil)
		},
	}
}

func flightsTool(load func() (*mileage.Ledger, error)) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Flights",
			Description: "Flights lists the member's recorded flights, most recent first, with earned miles and qualification points.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of all recorded flights.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			ledger, err := load()
			if err != nil {
				return toolResponse(id, "Flights", "", err)
			}
			return toolResponse(id, "Flights", renderer.Flights(ledger), nil)
		},
	}
}
