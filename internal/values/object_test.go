package values_test

import (
	"testing"

	"github.com/asynkron/jsengine-go/internal/values"
)

func TestOwnPropertyLookupMissIsUndefinedNotFound(t *testing.T) {
	obj := values.NewObject(nil)
	if _, ok := obj.GetOwn("missing"); ok {
		t.Fatalf("GetOwn on a non-existent key must report false")
	}
	if _, _, ok := obj.LookupProperty("missing"); ok {
		t.Fatalf("LookupProperty on a non-existent key must report false")
	}
}

func TestPrototypeChainWalk(t *testing.T) {
	proto := values.NewObject(nil)
	proto.DefineOwn("greeting", values.JSString("hi"))
	child := values.NewObject(proto)

	p, owner, ok := child.LookupProperty("greeting")
	if !ok {
		t.Fatalf("expected greeting to be found via the prototype chain")
	}
	if owner != proto {
		t.Fatalf("LookupProperty should report the defining object, not the receiver")
	}
	if s, ok := p.Value.(values.JSString); !ok || string(s) != "hi" {
		t.Fatalf("got %#v, want \"hi\"", p.Value)
	}
}

func TestPrototypeCycleDoesNotHang(t *testing.T) {
	a := values.NewObject(nil)
	b := values.NewObject(a)
	a.Proto = b // deliberately create a cycle

	if _, _, ok := a.LookupProperty("nope"); ok {
		t.Fatalf("lookup of a missing key in a cyclic prototype chain must terminate and report false")
	}
}

func TestOwnKeysPreservesInsertionOrderAndHidesSymbolKeys(t *testing.T) {
	obj := values.NewObject(nil)
	obj.DefineOwn("b", values.Number(2))
	obj.DefineOwn("a", values.Number(1))
	obj.DefineOwn(values.WellKnownIterator, values.Undefined)

	keys := obj.OwnKeys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("got %v, want [b a] in insertion order with the symbol key hidden", keys)
	}
}

func TestDeleteOwnRemovesFromOrderToo(t *testing.T) {
	obj := values.NewObject(nil)
	obj.DefineOwn("x", values.Number(1))
	if !obj.DeleteOwn("x") {
		t.Fatalf("DeleteOwn should report true for an existing key")
	}
	if obj.HasOwn("x") {
		t.Fatalf("x should no longer be an own property")
	}
	if len(obj.OwnKeys()) != 0 {
		t.Fatalf("OwnKeys should no longer list the deleted key")
	}
}

func TestArrayGetIndexOutOfRangeIsUndefined(t *testing.T) {
	arr := values.NewArray(nil, values.Number(1), values.Number(2))
	if arr.GetIndex(5) != values.Undefined {
		t.Fatalf("reading past the array's end must yield Undefined")
	}
}

func TestArraySetIndexGrowsAndFillsGap(t *testing.T) {
	arr := values.NewArray(nil)
	arr.SetIndex(2, values.Number(9))
	if arr.Length() != 3 {
		t.Fatalf("Length() = %d, want 3", arr.Length())
	}
	if arr.GetIndex(0) != values.Undefined || arr.GetIndex(1) != values.Undefined {
		t.Fatalf("the gap before the written index must be filled with Undefined")
	}
	if n, ok := arr.GetIndex(2).(values.Number); !ok || n != 9 {
		t.Fatalf("got %#v, want 9 at index 2", arr.GetIndex(2))
	}
}
