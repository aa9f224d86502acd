package command

import "image"

// compositeCommand wraps a batch of commands into one history entry.
// Apply runs the sub-commands in forward order, Revert in reverse.
// Composites never merge.
type compositeCommand struct {
	name string
	cmds []Command
}

func (c *compositeCommand) Name() string {
	return c.name
}

func (c *compositeCommand) Apply() error {
	for i, cmd := range c.cmds {
		if err := cmd.Apply(); err != nil {
			// Roll back the sub-commands that did apply.
			for j := i - 1; j >= 0; j-- {
				_ = c.cmds[j].Revert()
			}
			return err
		}
	}
	return nil
}

func (c *compositeCommand) Revert() error {
	for i := len(c.cmds) - 1; i >= 0; i-- {
		if err := c.cmds[i].Revert(); err != nil {
			// Re-apply what was already reverted.
			for j := i + 1; j < len(c.cmds); j++ {
				_ = c.cmds[j].Apply()
			}
			return err
		}
	}
	return nil
}

func (c *compositeCommand) MemoryBytes() int64 {
	var total int64
	for _, cmd := range c.cmds {
		total += cmd.MemoryBytes()
	}
	return total
}

func (c *compositeCommand) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, cmd := range c.cmds {
		b = b.Union(cmd.Bounds())
	}
	return b
}

// Release forwards to every sub-command that retains resources.
func (c *compositeCommand) Release() {
	for _, cmd := range c.cmds {
		if r, ok := cmd.(Releaser); ok {
			r.Release()
		}
	}
}

func (c *compositeCommand) CanMerge(Command) bool {
	return false
}

func (c *compositeCommand) Merge(Command) Command {
	return c
}
