package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"penpals/internal/engine"
	"penpals/internal/story"
)

var (
	ErrNoActiveRegion   = errors.New("no region selected")
	ErrRegionInProgress = errors.New("another region is in progress")
)

// Playthrough owns the state of one user's journey. All methods are safe for
// concurrent use; intents are applied one at a time.
type Playthrough struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	cat       *story.Catalog
	state     engine.State
	beat      engine.Beat
	updatedAt time.Time
	logger    *zap.Logger
}

func NewPlaythrough(id string, cat *story.Catalog, logger *zap.Logger) *Playthrough {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now()
	return &Playthrough{
		ID:        id,
		CreatedAt: now,
		cat:       cat,
		state:     engine.New(cat),
		updatedAt: now,
		logger:    logger.With(zap.String("playthrough", id)),
	}
}

func (p *Playthrough) SelectRegion(id story.RegionID) (View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Region != "" && p.state.Region != id {
		return p.view(), fmt.Errorf("%w: %s", ErrRegionInProgress, p.state.Region)
	}
	if p.state.Region == id {
		return p.view(), nil
	}

	region, err := p.cat.Region(id)
	if err != nil {
		return p.view(), err
	}
	state, beat, err := engine.SelectRegion(p.state, region)
	if err != nil {
		return p.view(), err
	}
	p.commit(state, beat)
	p.logger.Debug("region selected",
		zap.String("region", string(id)),
		zap.String("letter", beat.Letter),
		zap.Bool("replay", state.IsCompleted(id)),
	)
	return p.view(), nil
}

func (p *Playthrough) SubmitChoice(choiceID string) (View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	region, letter, err := p.current()
	if err != nil {
		return p.view(), err
	}
	choice, err := letter.Choice(choiceID)
	if err != nil {
		return p.view(), err
	}
	state, beat, err := engine.ApplyChoice(p.state, region, letter, p.beat, choice)
	if err != nil {
		p.logger.Debug("choice rejected", zap.String("choice", choiceID), zap.Error(err))
		return p.view(), err
	}
	p.commit(state, beat)
	p.logger.Debug("choice applied",
		zap.String("region", string(region.ID)),
		zap.String("letter", letter.ID),
		zap.String("choice", choiceID),
		zap.String("phase", string(beat.Phase)),
		zap.Int("budget", state.Budget(region.ID)),
	)
	return p.view(), nil
}

func (p *Playthrough) SubmitWalletOption(optionID string) (View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	region, letter, err := p.current()
	if err != nil {
		return p.view(), err
	}
	if letter.Wallet == nil {
		return p.view(), fmt.Errorf("%w: %s/%s", engine.ErrNoWalletEvent, region.ID, letter.ID)
	}
	option, err := letter.Wallet.Option(optionID)
	if err != nil {
		return p.view(), err
	}
	state, beat, err := engine.ApplyWalletOption(p.state, region, letter, p.beat, option)
	if err != nil {
		p.logger.Debug("wallet option rejected", zap.String("option", optionID), zap.Error(err))
		return p.view(), err
	}
	p.commit(state, beat)
	p.logger.Debug("wallet option applied",
		zap.String("region", string(region.ID)),
		zap.String("letter", letter.ID),
		zap.String("option", optionID),
		zap.Int("budget", state.Budget(region.ID)),
	)
	return p.view(), nil
}

// Continue advances a completed beat to the next letter, or closes the
// region when the beat had no next letter.
func (p *Playthrough) Continue() (View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	region, _, err := p.current()
	if err != nil {
		return p.view(), err
	}
	state, beat, err := engine.Advance(p.state, region, p.beat)
	if err != nil {
		return p.view(), err
	}
	p.commit(state, beat)
	if beat.Letter == "" {
		p.logger.Debug("region completed",
			zap.String("region", string(region.ID)),
			zap.Int("completed", len(state.Completed)),
			zap.Bool("finished", engine.Finished(state, p.cat)),
		)
	} else {
		p.logger.Debug("advanced", zap.String("region", string(region.ID)), zap.String("letter", beat.Letter))
	}
	return p.view(), nil
}

func (p *Playthrough) Restart() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.commit(engine.Reset(p.cat), engine.Beat{})
	p.logger.Debug("restarted")
	return p.view()
}

func (p *Playthrough) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view()
}

func (p *Playthrough) State() engine.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone()
}

func (p *Playthrough) UpdatedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updatedAt
}

func (p *Playthrough) current() (*story.Region, *story.Letter, error) {
	if p.state.Region == "" {
		return nil, nil, ErrNoActiveRegion
	}
	region, err := p.cat.Region(p.state.Region)
	if err != nil {
		return nil, nil, err
	}
	letter, err := region.Letter(p.state.Letter)
	if err != nil {
		return nil, nil, err
	}
	return region, letter, nil
}

func (p *Playthrough) commit(state engine.State, beat engine.Beat) {
	p.state = state
	p.beat = beat
	p.updatedAt = time.Now()
}
