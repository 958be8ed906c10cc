package core

const (
	maxCapabilities    = 10
	maxCapabilityBytes = 32
	maxAgentNameBytes  = 32
	maxAgentDescBytes  = 256
)

// AgentProfile is the registered agent record of spec §3.
type AgentProfile struct {
	Owner          Principal
	Treasury       Address
	Bump           uint8
	Name           string
	Description    string
	Capabilities   []string
	BasePrice      uint64
	IsActive       bool
	TotalRequests  uint64
	TotalEarnings  uint64
	RegisteredAt   int64
	LastActiveAt   int64
}

func (p *AgentProfile) encode() []byte {
	e := newEncoder(ClassAgentProfile)
	e.raw32([32]byte(p.Owner))
	e.raw32([32]byte(p.Treasury))
	e.u8(p.Bump)
	e.str(p.Name)
	e.str(p.Description)
	e.strVec(p.Capabilities)
	e.u64(p.BasePrice)
	e.boolFlag(p.IsActive)
	e.u64(p.TotalRequests)
	e.u64(p.TotalEarnings)
	e.i64(p.RegisteredAt)
	e.i64(p.LastActiveAt)
	return e.bytesOut()
}

func decodeAgentProfile(data []byte) (*AgentProfile, error) {
	d := newDecoder(data, ClassAgentProfile)
	p := &AgentProfile{
		Owner:       Principal(d.raw32()),
		Treasury:    Address(d.raw32()),
		Bump:        d.u8(),
		Name:        d.str(),
		Description: d.str(),
		Capabilities: d.strVec(),
	}
	p.BasePrice = d.u64()
	p.IsActive = d.boolFlag()
	p.TotalRequests = d.u64()
	p.TotalEarnings = d.u64()
	p.RegisteredAt = d.i64()
	p.LastActiveAt = d.i64()
	if d.fail() {
		return nil, d.err
	}
	return p, nil
}

// canonicalizeCapabilities performs an order-preserving dedup and enforces
// the per-tag and list-size limits of spec §3/§4.6.
func canonicalizeCapabilities(caps []string) ([]string, error) {
	seen := make(map[string]struct{}, len(caps))
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		if len(c) > maxCapabilityBytes {
			return nil, ErrCapabilityListTooLarge
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) > maxCapabilities {
		return nil, ErrCapabilityListTooLarge
	}
	return out, nil
}

// RegisterAgent creates owner's AgentProfile. owner's Treasury must
// already exist.
func RegisterAgent(s *AccountStore, ctx *Context, owner Principal, name, description string, capabilities []string, basePrice uint64) (*AgentProfile, error) {
	if err := ctx.RequireSigner(owner); err != nil {
		return nil, err
	}
	if len(name) > maxAgentNameBytes || len(description) > maxAgentDescBytes {
		return nil, ErrBadSerialization
	}
	caps, err := canonicalizeCapabilities(capabilities)
	if err != nil {
		return nil, err
	}
	_, treasuryAddr, err := loadTreasury(s, owner)
	if err != nil {
		return nil, err
	}

	addr, bump, err := DeriveAgent(owner)
	if err != nil {
		return nil, err
	}
	p := &AgentProfile{
		Owner:        owner,
		Treasury:     treasuryAddr,
		Bump:         bump,
		Name:         name,
		Description:  description,
		Capabilities: caps,
		BasePrice:    basePrice,
		IsActive:     true,
		RegisteredAt: ctx.Now,
		LastActiveAt: ctx.Now,
	}
	if err := s.Create(addr, ClassAgentProfile, p.encode(), [32]byte(owner)); err != nil {
		return nil, err
	}
	ctx.Emit("RegisterAgent", [32]byte(owner))
	return p, nil
}

// ProfileUpdate carries the optional fields UpdateProfile may mutate, one
// presence flag per field per spec §6's "optional fields with presence
// flags" payload shape.
type ProfileUpdate struct {
	Name         *string
	Description  *string
	Capabilities *[]string
	BasePrice    *uint64
	IsActive     *bool
}

// UpdateProfile mutates only the fields present in updates, plus
// LastActiveAt which always advances to ctx.Now.
func UpdateProfile(s *AccountStore, ctx *Context, owner Principal, updates ProfileUpdate) (*AgentProfile, error) {
	if err := ctx.RequireSigner(owner); err != nil {
		return nil, err
	}
	addr, _, err := DeriveAgent(owner)
	if err != nil {
		return nil, err
	}
	data, err := s.Load(addr, ClassAgentProfile)
	if err != nil {
		return nil, err
	}
	p, err := decodeAgentProfile(data)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		if len(*updates.Name) > maxAgentNameBytes {
			return nil, ErrBadSerialization
		}
		p.Name = *updates.Name
	}
	if updates.Description != nil {
		if len(*updates.Description) > maxAgentDescBytes {
			return nil, ErrBadSerialization
		}
		p.Description = *updates.Description
	}
	if updates.Capabilities != nil {
		caps, err := canonicalizeCapabilities(*updates.Capabilities)
		if err != nil {
			return nil, err
		}
		p.Capabilities = caps
	}
	if updates.BasePrice != nil {
		p.BasePrice = *updates.BasePrice
	}
	if updates.IsActive != nil {
		p.IsActive = *updates.IsActive
	}
	p.LastActiveAt = ctx.Now

	if err := s.Write(addr, ClassAgentProfile, p.encode()); err != nil {
		return nil, err
	}
	ctx.Emit("UpdateProfile", [32]byte(owner))
	return p, nil
}

// GetAgentProfile loads owner's profile.
func GetAgentProfile(s *AccountStore, owner Principal) (*AgentProfile, error) {
	addr, _, err := DeriveAgent(owner)
	if err != nil {
		return nil, err
	}
	data, err := s.Load(addr, ClassAgentProfile)
	if err != nil {
		return nil, err
	}
	return decodeAgentProfile(data)
}
