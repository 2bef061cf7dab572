package canvas

import "image"

// Damage grows the damage rectangle to include (x, y). Points outside the
// canvas are ignored.
func (c *Canvas) Damage(x, y int) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	p := image.Rect(x, y, x+1, y+1)
	if c.damage.Empty() {
		c.damage = p
		return
	}
	c.damage = c.damage.Union(p)
}

// DamageFull marks every pixel as stale.
func (c *Canvas) DamageFull() {
	c.Damage(0, 0)
	c.Damage(c.width-1, c.height-1)
}

// DamageRect returns the region whose composited pixels are stale. It is
// empty right after Render.
func (c *Canvas) DamageRect() image.Rectangle { return c.damage }
