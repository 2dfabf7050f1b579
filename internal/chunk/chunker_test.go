package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hermeskg/hermes/internal/graph"
)

func TestChunkRustFunction(t *testing.T) {
	src := "pub fn hello(name: &str) -> String {\n    format!(\"Hello {name}\")\n}\n"
	chunks := Chunk("src/greet.rs", src)

	require.Len(t, chunks, 1)
	require.Equal(t, "hello", chunks[0].Name)
	require.Equal(t, graph.NodeTypeFunction, chunks[0].NodeType)
	require.Equal(t, 1, chunks[0].StartLine)
}

func TestChunkRustImplWithFor(t *testing.T) {
	src := "impl Display for Point {\n    fn fmt(&self) {}\n}\n"
	chunks := ChunkRust(src)

	require.Len(t, chunks, 2) // the impl block and the nested fn
	require.Equal(t, "Point", chunks[0].Name)
	require.Equal(t, graph.NodeTypeImpl, chunks[0].NodeType)
}

func TestChunkRustBoundedFallbackWhenNoBrace(t *testing.T) {
	src := "pub fn forward_decl(x: i32) -> i32;\nunrelated text\nmore text\n"
	chunks := ChunkRust(src)

	require.Len(t, chunks, 1)
	require.Equal(t, "forward_decl", chunks[0].Name)
	require.Equal(t, 1, chunks[0].StartLine)
	require.Equal(t, 2, chunks[0].EndLine) // bounded two-line fallback
}

func TestChunkMarkdownSections(t *testing.T) {
	src := "# Title\nIntro\n## Section A\nContent A\n## Section B\nContent B\n"
	chunks := Chunk("README.md", src)

	require.Len(t, chunks, 3)
	require.Equal(t, "Title", chunks[0].Name)
	require.Equal(t, "Section A", chunks[1].Name)
	require.Equal(t, "Section B", chunks[2].Name)
	for _, c := range chunks {
		require.Equal(t, graph.NodeTypeDocument, c.NodeType)
		require.Equal(t, c.Name, c.Summary)
	}
}

func TestChunkMarkdownNoHeadingsFallsBackToWholeFile(t *testing.T) {
	src := "just some text\nwith no headings at all\n"
	chunks := Chunk("notes.md", src)

	require.Len(t, chunks, 1)
	require.Equal(t, graph.NodeTypeFile, chunks[0].NodeType)
}

func TestChunkJVMKotlinFunAndClass(t *testing.T) {
	src := "class Greeter {\n    fun hello(name: String) {\n        println(name)\n    }\n}\n"
	chunks := ChunkJVM(src)

	require.Len(t, chunks, 2)
	require.Equal(t, "Greeter", chunks[0].Name)
	require.Equal(t, graph.NodeTypeStruct, chunks[0].NodeType)
	require.Equal(t, "hello", chunks[1].Name)
	require.Equal(t, graph.NodeTypeFunction, chunks[1].NodeType)
}

func TestChunkJVMEnumClass(t *testing.T) {
	src := "enum class Color {\n    RED, GREEN, BLUE\n}\n"
	chunks := ChunkJVM(src)

	require.Len(t, chunks, 1)
	require.Equal(t, "Color", chunks[0].Name)
	require.Equal(t, graph.NodeTypeEnum, chunks[0].NodeType)
}

func TestChunkTSJSExportFunction(t *testing.T) {
	src := "export function handleRequest(req) {\n    return req;\n}\n"
	chunks := Chunk("api.ts", src)

	require.Len(t, chunks, 1)
	require.Equal(t, "handleRequest", chunks[0].Name)
	require.Equal(t, graph.NodeTypeFunction, chunks[0].NodeType)
}

func TestChunkTSJSConstArrow(t *testing.T) {
	src := "const retry = () => {\n    doStuff();\n}\n"
	chunks := ChunkTSJS(src)

	require.Len(t, chunks, 1)
	require.Equal(t, "retry", chunks[0].Name)
}

func TestChunkTSJSPlainConstIsNotAChunk(t *testing.T) {
	src := "const MAX_RETRIES = 5;\n"
	chunks := ChunkTSJS(src)

	require.Empty(t, chunks)
}

func TestChunkTSJSAnonymousDefaultExport(t *testing.T) {
	src := "export default function () {\n    return 1;\n}\n"
	chunks := ChunkTSJS(src)

	require.Len(t, chunks, 1)
	require.Equal(t, "anonymous_0", chunks[0].Name)
}

func TestChunkFallbackForOtherExtensions(t *testing.T) {
	src := "[package]\nname = \"hermes\"\n"
	chunks := Chunk("Cargo.toml", src)

	require.Len(t, chunks, 1)
	require.Equal(t, graph.NodeTypeFile, chunks[0].NodeType)
	require.Equal(t, "Cargo.toml", chunks[0].Name)
}

func TestChunkEmptyInputYieldsNoChunks(t *testing.T) {
	require.Empty(t, Chunk("empty.go", ""))
}

func TestIsSupportedExtension(t *testing.T) {
	require.True(t, IsSupportedExtension(".go"))
	require.True(t, IsSupportedExtension(".RS"))
	require.False(t, IsSupportedExtension(".exe"))
}
