package schema

import "testing"

func TestInt64RangeDefaultsToFullRangeWhenUnset(t *testing.T) {
	n := &Node{Kind: KindInteger}
	lo, hi := n.Int64Range()
	if lo != 0 || hi != 1<<63-1 {
		t.Errorf("Int64Range() = (%d, %d), want (0, %d)", lo, hi, int64(1<<63-1))
	}
}

func TestInt64RangeHonorsExplicitAlwaysZero(t *testing.T) {
	n := &Node{Kind: KindInteger, IntRangeSet: true, IntMin: 0, IntMax: 0}
	lo, hi := n.Int64Range()
	if lo != 0 || hi != 0 {
		t.Errorf("Int64Range() = (%d, %d), want (0, 0)", lo, hi)
	}
}

func TestInt64RangeHonorsExplicitNonZeroBounds(t *testing.T) {
	n := &Node{Kind: KindInteger, IntRangeSet: true, IntMin: 5, IntMax: 9}
	lo, hi := n.Int64Range()
	if lo != 5 || hi != 9 {
		t.Errorf("Int64Range() = (%d, %d), want (5, 9)", lo, hi)
	}
}
