package model

import (
	"math/big"

	"github.com/xssnick/tonutils-go/address"
)

// TokenType is the on-chain tag of a pool asset.
type TokenType uint8

const (
	TokenTypeJetton TokenType = 0
	TokenTypeNative TokenType = 1
)

// Token identifies a pool asset: the native coin or a jetton master.
type Token struct {
	Type         TokenType
	JettonMaster *address.Address
}

// NativeToken returns the token for the chain's native coin.
func NativeToken() Token {
	return Token{Type: TokenTypeNative}
}

// JettonToken returns the token for a jetton master contract.
func JettonToken(master *address.Address) Token {
	return Token{Type: TokenTypeJetton, JettonMaster: master}
}

// Address returns the user-friendly master address, or "" for the native coin.
func (t Token) Address() string {
	if t.Type != TokenTypeJetton || t.JettonMaster == nil {
		return ""
	}
	return t.JettonMaster.String()
}

// Key identifies the token within a pool.
func (t Token) Key() string {
	if t.Type == TokenTypeNative {
		return "native"
	}
	return "jetton:" + t.Address()
}

// Asset is one reserve entry of a pool as stored on chain.
type Asset struct {
	Token     Token
	Precision *big.Int
	Balance   *big.Int
	AdminFees *big.Int
}
