package domain

// LaunchRequest is a validated token launch request parsed from a feed post.
// Immutable once created by the parser.
type LaunchRequest struct {
	Name        string  // token display name
	Symbol      string  // canonical uppercase ticker
	Wallet      string  // 0x-prefixed 40-hex-digit address
	Description string  // free-text description
	PetType     PetType // dog | cat | hamster | bunny
	Website     *string // optional, nil when absent from the post
	Twitter     *string // optional, nil when absent from the post
}

// DeploymentResult is the outcome of a successful token deployment.
type DeploymentResult struct {
	ContractAddress string // deployed token contract address
	TxHash          string // deployment transaction hash
	LaunchPageURL   string // deployment-service page for the token
	PostID          string // announcement post id on the feed
	PostURL         string // announcement post URL
}

// LaunchRecord is the ledger entry for a completed launch.
// Keyed by Request.Symbol; created only after a successful deployment
// and never mutated or deleted afterwards.
type LaunchRecord struct {
	Request         LaunchRequest
	ImageURL        string // publicly reachable rendered image
	ContractAddress string
	TxHash          string
	LaunchPageURL   string
	SourcePostID    string // post that requested the launch
	SourcePostURL   string
	AnnouncePostID  string // follow-up announcement post
	AnnouncePostURL string
	AgentName       string // author of the requesting post
	LaunchedAt      int64  // Unix timestamp in milliseconds
}
