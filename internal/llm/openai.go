package llm

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"

	"github.com/nickcecere/barnsbot/internal/upstream"
)

// OpenAIService implements Service using the OpenAI Responses API.
type OpenAIService struct {
	client openai.Client
	model  string
}

// NewOpenAIService creates a new OpenAI model service.
func NewOpenAIService(apiKey, model, baseURL string) (*OpenAIService, error) {
	client, err := upstream.NewClient(apiKey, baseURL)
	if err != nil {
		return nil, err
	}

	return &OpenAIService{
		client: client,
		model:  model,
	}, nil
}

// Respond sends the instructions as a system message and the question as a
// user message, with a file_search tool over the store.
func (s *OpenAIService) Respond(ctx context.Context, req Request) (*Reply, error) {
	log.Debug("Requesting response from OpenAI", "model", s.model, "store", req.StoreID)

	tool := responses.ToolParamOfFileSearch([]string{req.StoreID})
	if req.MaxResults > 0 {
		tool.OfFileSearch.MaxNumResults = openai.Int(int64(req.MaxResults))
	}

	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: s.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(req.Instructions, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(req.Question, responses.EasyInputMessageRoleUser),
			},
		},
		Tools: []responses.ToolUnionParam{tool},
	})
	if err != nil {
		return nil, upstream.Wrap("create response", err)
	}

	return &Reply{
		Text:    resp.OutputText(),
		Sources: citedFiles(resp),
	}, nil
}

// ModelName returns the model name.
func (s *OpenAIService) ModelName() string {
	return s.model
}

func citedFiles(resp *responses.Response) []string {
	var sources []string
	seen := make(map[string]bool)
	for _, item := range resp.Output {
		for _, content := range item.Content {
			for _, ann := range content.Annotations {
				if ann.Type != "file_citation" || ann.Filename == "" || seen[ann.Filename] {
					continue
				}
				seen[ann.Filename] = true
				sources = append(sources, ann.Filename)
			}
		}
	}
	return sources
}
