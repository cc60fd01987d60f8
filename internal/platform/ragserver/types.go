package ragserver

// ProcessRequest asks the processing service to chunk and embed a stored file.
type ProcessRequest struct {
	SourceID     string `json:"source_id"`
	ServiceID    string `json:"service_id"`
	FilePath     string `json:"file_path"`
	FileType     string `json:"file_type"`
	ChunkSize    int    `json:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`
}

// ProcessStatus is the processing service's view of one source.
type ProcessStatus struct {
	SourceID      string  `json:"source_id"`
	Status        string  `json:"status"`
	ChunksCreated int     `json:"chunks_created"`
	ErrorMessage  *string `json:"error_message"`
}

type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	ServiceID           string           `json:"service_id"`
	Message             string           `json:"message"`
	SessionID           string           `json:"session_id,omitempty"`
	ConversationHistory []HistoryMessage `json:"conversation_history"`
	StyleGuidelines     string           `json:"style_guidelines,omitempty"`
}

type ChunkInfo struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata"`
}

// ChatResponse is the decoded chat reply. Absent optional strings are nil
// and an absent chunk list is empty.
type ChatResponse struct {
	Response    string      `json:"response"`
	SessionID   string      `json:"session_id"`
	MessageID   *string     `json:"message_id"`
	PromptUsed  *string     `json:"prompt_used"`
	ContextUsed *string     `json:"context_used"`
	ChunksUsed  []ChunkInfo `json:"chunks_used"`
}

func (r *ChatResponse) normalize() {
	if r.ChunksUsed == nil {
		r.ChunksUsed = []ChunkInfo{}
	}
	for i := range r.ChunksUsed {
		if r.ChunksUsed[i].Metadata == nil {
			r.ChunksUsed[i].Metadata = map[string]any{}
		}
	}
	r.MessageID = nilIfBlank(r.MessageID)
	r.PromptUsed = nilIfBlank(r.PromptUsed)
	r.ContextUsed = nilIfBlank(r.ContextUsed)
}

func nilIfBlank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
