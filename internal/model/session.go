package model

type State int

const (
	DefaultState State = iota
	ExpectingAsset
	ExpectingDebt
)

type Session struct {
	State State `json:"state"`
}
