package graph

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// fileIndex is an in-memory accelerator mapping a file path to the set of
// node IDs that originated from it, so deleteNodesForFile doesn't need a
// table scan to find its victims. Node IDs are opaque strings; roaring
// bitmaps only hold uint32s, so the index keeps a bijection between node
// ID and a locally-assigned integer, the same scheme the reference
// knowledge-graph example (mache's MemoryStore.fileToNodes) uses for the
// identical problem.
//
// The index is a cache, not the source of truth: it is rebuilt from the
// store at Graph construction and kept in sync incrementally by addNode /
// deleteNodesForFile. Losing it (e.g. a crash) only costs a future
// rebuild, never correctness, because every mutating Graph method also
// issues the equivalent SQL.
type fileIndex struct {
	mu          sync.RWMutex
	nodeToInt   map[string]uint32
	intToNode   []string
	byFile      map[string]*roaring.Bitmap
	next        uint32
}

func newFileIndex() *fileIndex {
	return &fileIndex{
		nodeToInt: make(map[string]uint32),
		byFile:    make(map[string]*roaring.Bitmap),
	}
}

func (fi *fileIndex) add(nodeID, filePath string) {
	if filePath == "" {
		return
	}
	fi.mu.Lock()
	defer fi.mu.Unlock()

	id, ok := fi.nodeToInt[nodeID]
	if !ok {
		id = fi.next
		fi.next++
		fi.nodeToInt[nodeID] = id
		for uint32(len(fi.intToNode)) <= id {
			fi.intToNode = append(fi.intToNode, "")
		}
		fi.intToNode[id] = nodeID
	}

	bm, ok := fi.byFile[filePath]
	if !ok {
		bm = roaring.New()
		fi.byFile[filePath] = bm
	}
	bm.Add(id)
}

// removeFile returns (and forgets) every node ID indexed under filePath.
func (fi *fileIndex) removeFile(filePath string) []string {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	bm, ok := fi.byFile[filePath]
	if !ok {
		return nil
	}
	delete(fi.byFile, filePath)

	ids := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		intID := it.Next()
		if int(intID) < len(fi.intToNode) && fi.intToNode[intID] != "" {
			ids = append(ids, fi.intToNode[intID])
			delete(fi.nodeToInt, fi.intToNode[intID])
			fi.intToNode[intID] = ""
		}
	}
	return ids
}
