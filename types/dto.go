package types

type AddRecord struct {
	Sender    string  `json:"sender"`
	Receiver  string  `json:"receiver"`
	Amount    float64 `json:"amount"`
	CreatorID int     `json:"creatorId"`
}

type Block struct {
	Index     int     `json:"index"`
	Sender    string  `json:"sender"`
	Receiver  string  `json:"receiver"`
	Amount    float64 `json:"amount"`
	CreatorID int     `json:"creatorId"`
	PrevHash  string  `json:"prevHash"`
	Hash      string  `json:"hash"`
	Timestamp string  `json:"timestamp"`
	Nonce     uint64  `json:"nonce"`
	PoW       bool    `json:"pow"`
}

type Blockchain struct {
	Blocks     []*Block `json:"blocks"`
	Difficulty int      `json:"difficulty"`
}

type Validation struct {
	Valid        bool `json:"valid"`
	Length       int  `json:"length"`
	FirstInvalid int  `json:"firstInvalid"`
}

type Difficulty struct {
	Difficulty int `json:"difficulty"`
}
