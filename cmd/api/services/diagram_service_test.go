package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
)

func TestParseMindmapBuildsTree(t *testing.T) {
	response := `<map>
	<node text="勾股定理">
		<node text="定义">
			<node text="直角三角形"/>
		</node>
		<node text="证明"/>
	</node>
</map>`

	root := parseMindmap(response)

	assert.Equal(t, "勾股定理", root.Text)
	assert.Len(t, root.Nodes, 2)
	assert.Equal(t, "定义", root.Nodes[0].Text)
	assert.Equal(t, "直角三角形", root.Nodes[0].Nodes[0].Text)
	assert.Equal(t, "证明", root.Nodes[1].Text)
	assert.Empty(t, root.Nodes[1].Nodes)
}

func TestParseMindmapInvalidXMLDegradesToErrorNode(t *testing.T) {
	root := parseMindmap(`<map><node text="broken"`)

	assert.Contains(t, root.Text, "解析错误")
	assert.Empty(t, root.Nodes)
}

func TestParseMindmapMissingRootNodeDegradesToPlaceholder(t *testing.T) {
	root := parseMindmap(`<map></map>`)

	assert.Equal(t, dto.MindmapNodeDTO{Text: "解析失败"}, root)
}
