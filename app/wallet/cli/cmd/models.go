package cmd

type tx struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Reward    bool    `json:"reward,omitempty"`
}

type block struct {
	Index        uint64 `json:"index"`
	Hash         string `json:"hash"`
	PreviousHash string `json:"previous_hash"`
	Proof        uint64 `json:"proof"`
	TimeStamp    uint64 `json:"timestamp"`
	Transactions []tx   `json:"transactions"`
}

type balance struct {
	Participant string  `json:"participant"`
	Balance     float64 `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Pending     int       `json:"pending"`
	Balances    []balance `json:"balances"`
}

type genesis struct {
	Owner         string  `json:"owner"`
	DefaultAmount float64 `json:"default_amount"`
	MiningReward  float64 `json:"mining_reward"`
	Difficulty    uint    `json:"difficulty"`
}

type verify struct {
	Valid   bool `json:"valid"`
	Blocks  int  `json:"blocks"`
	Pending int  `json:"pending"`
}
