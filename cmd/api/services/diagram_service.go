package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/the-beginners-2025/backend-go/cmd/api/clients/llmclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/logger"
	"github.com/the-beginners-2025/backend-go/repositories"
)

// DiagramService turns a question/answer pair into a mind map tree or
// a streamed flowchart description.
type DiagramService struct {
	llm        *llmclient.Client
	statistics *repositories.UserStatisticsRepository
}

func NewDiagramService(llm *llmclient.Client, statistics *repositories.UserStatisticsRepository) *DiagramService {
	return &DiagramService{llm: llm, statistics: statistics}
}

func diagramUserMessage(req dto.DiagramRequestDTO) string {
	return fmt.Sprintf("问题: %s\n回答: %s", req.UserContent, req.AssistantContent)
}

// mindmapXMLNode mirrors the model's <node text="..."> tree.
type mindmapXMLNode struct {
	Text  string           `xml:"text,attr"`
	Nodes []mindmapXMLNode `xml:"node"`
}

type mindmapXMLRoot struct {
	Node *mindmapXMLNode `xml:"node"`
}

func mindmapNodeToDTO(node mindmapXMLNode) dto.MindmapNodeDTO {
	result := dto.MindmapNodeDTO{Text: node.Text}
	for _, child := range node.Nodes {
		result.Nodes = append(result.Nodes, mindmapNodeToDTO(child))
	}
	return result
}

// parseMindmap converts the model's XML answer into the response tree.
// Parsing problems degrade to a placeholder node rather than an error,
// since the model output is best-effort.
func parseMindmap(response string) dto.MindmapNodeDTO {
	var root mindmapXMLRoot
	if err := xml.Unmarshal([]byte(response), &root); err != nil {
		return dto.MindmapNodeDTO{Text: fmt.Sprintf("解析错误: %s", err.Error())}
	}
	if root.Node == nil {
		return dto.MindmapNodeDTO{Text: "解析失败"}
	}
	return mindmapNodeToDTO(*root.Node)
}

// Mindmap asks the model for a mind map as XML and parses it into a
// tree.
func (s *DiagramService) Mindmap(ctx context.Context, userID uuid.UUID, req dto.DiagramRequestDTO) (dto.MindmapResponseDTO, error) {
	if err := s.statistics.IncrementMindMap(ctx, userID); err != nil {
		logger.ErrorWithFields("failed to count mind map", logger.Fields{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}

	response, err := s.llm.Chat(ctx, []llmclient.Message{
		{Role: llmclient.RoleSystem, Content: mindmapPrompt},
		{Role: llmclient.RoleUser, Content: diagramUserMessage(req)},
	})
	if err != nil {
		return dto.MindmapResponseDTO{}, err
	}
	return dto.MindmapResponseDTO{RootNode: parseMindmap(response)}, nil
}

// Flowchart streams the model's flowchart description chunk by chunk
// through send.
func (s *DiagramService) Flowchart(ctx context.Context, userID uuid.UUID, req dto.DiagramRequestDTO, send func(content string) error) error {
	if err := s.statistics.IncrementFlowChart(ctx, userID); err != nil {
		logger.ErrorWithFields("failed to count flow chart", logger.Fields{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}

	stream, err := s.llm.ChatStream(ctx, []llmclient.Message{
		{Role: llmclient.RoleSystem, Content: flowchartPrompt},
		{Role: llmclient.RoleUser, Content: diagramUserMessage(req)},
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if chunk == "" {
			continue
		}
		if err := send(chunk); err != nil {
			return err
		}
	}
}
